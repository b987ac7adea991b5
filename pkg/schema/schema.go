// Package schema describes the record layouts of the ETL character database
// as data. Each file format has one Schema; a single generic decoder in
// package record consumes them.
package schema

import (
	"fmt"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/pixel"
)

// Schema is the layout of one record format. Schemas are built once and
// must not be modified afterwards.
type Schema struct {
	Name            string
	OctetsPerRecord int
	// SkipRecords is the number of leading header records in a file.
	SkipRecords int
	Fields      []bitfield.Field
	Transforms  map[string]Transform

	// CharField names the field whose transformed value is the sample's
	// character; ImageField names the field holding the pixel grid.
	CharField  string
	ImageField string

	// Bilevel reports that image pixels are {0,1} rather than 0-255.
	Bilevel bool
	// Resample is the default interpolation for normalized output.
	Resample pixel.Resampler
}

// RecordBits returns the record length in bits.
func (s *Schema) RecordBits() int {
	return s.OctetsPerRecord * 8
}

// FieldNames returns the names of the value-producing fields in order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}

// Image returns the image transform of the schema.
func (s *Schema) Image() (Image, bool) {
	t, ok := s.Transforms[s.ImageField].(Image)
	return t, ok
}

// CharScheme returns the character-code scheme of the schema.
func (s *Schema) CharScheme() (charcode.Scheme, bool) {
	t, ok := s.Transforms[s.CharField].(CharCode)
	return t.Scheme, ok
}

// NeedsCodeTable reports whether decoding requires a loaded code table.
func (s *Schema) NeedsCodeTable() bool {
	sc, ok := s.CharScheme()
	return ok && sc.Kind == charcode.TableLookup
}

// Validate checks that the field widths add up to the record length and that
// every transform and designated field exists.
func (s *Schema) Validate() error {
	if got := bitfield.TotalBits(s.Fields); got != s.RecordBits() {
		return fmt.Errorf("schema %s: fields cover %d bits, record is %d", s.Name, got, s.RecordBits())
	}

	names := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			continue
		}
		if names[f.Name] {
			return fmt.Errorf("schema %s: duplicate field %q", s.Name, f.Name)
		}
		names[f.Name] = true
	}
	for name := range s.Transforms {
		if !names[name] {
			return fmt.Errorf("schema %s: transform for unknown field %q", s.Name, name)
		}
	}
	if !names[s.CharField] {
		return fmt.Errorf("schema %s: unknown char field %q", s.Name, s.CharField)
	}
	if _, ok := s.Image(); !ok {
		return fmt.Errorf("schema %s: image field %q has no image transform", s.Name, s.ImageField)
	}

	return nil
}
