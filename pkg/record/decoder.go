package record

import (
	"fmt"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// DecodeError reports the failure of one record. It unwraps to the sentinel
// of the component that failed.
type DecodeError struct {
	Index int    // record ordinal within the file, header records included
	Field string // empty when the failure is not tied to a field
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d: field %q: %v", e.Index, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns raw records of one schema into Records. It holds only
// read-only state and may be shared by concurrent sessions.
type Decoder struct {
	schema *schema.Schema
	env    schema.Env
}

// NewDecoder creates a decoder for s. chars may be nil, in which case a
// decoder without a code table is used.
func NewDecoder(s *schema.Schema, chars *charcode.Decoder) *Decoder {
	if chars == nil {
		chars = charcode.NewDecoder(nil)
	}
	return &Decoder{
		schema: s,
		env:    schema.Env{Chars: chars},
	}
}

// Schema returns the decoder's schema.
func (d *Decoder) Schema() *schema.Schema {
	return d.schema
}

// OctetsPerRecord returns the fixed record length in bytes.
func (d *Decoder) OctetsPerRecord() int {
	return d.schema.OctetsPerRecord
}

// DecodeNext decodes the record at the reader's cursor, which must sit on a
// record boundary. The record is built completely or not at all.
func (d *Decoder) DecodeNext(r *bitfield.Reader) (*Record, error) {
	index := r.Pos() / d.schema.RecordBits()

	values, err := r.Read(d.schema.Fields)
	if err != nil {
		return nil, &DecodeError{Index: index, Err: err}
	}

	names := d.schema.FieldNames()
	rec := &Record{
		Index:  index,
		Schema: d.schema,
		Fields: make(map[string]any, len(names)),
		Raw:    make(map[string]any, len(names)),
	}
	for i, name := range names {
		v := values[i]
		rec.Raw[name] = v
		if t, ok := d.schema.Transforms[name]; ok {
			if v, err = t.Apply(v, d.env); err != nil {
				return nil, &DecodeError{Index: index, Field: name, Err: err}
			}
		}
		rec.Fields[name] = v
	}

	return rec, nil
}
