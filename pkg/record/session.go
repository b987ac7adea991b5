package record

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/etlcdb/pkg/bitfield"
)

// Session decodes the records of one file in order. It owns its reader and
// must not be used from more than one goroutine.
type Session struct {
	data    []byte
	reader  *bitfield.Reader
	decoder *Decoder
	skip    int
	err     error
}

// NewSession starts a session over data, skipping the first skip records.
func NewSession(data []byte, d *Decoder, skip int) (*Session, error) {
	if skip < 0 {
		return nil, fmt.Errorf("negative skip count %d", skip)
	}

	r := bitfield.NewReader(data)
	if err := r.Skip(skip * d.schema.RecordBits()); err != nil {
		return nil, &DecodeError{Index: 0, Err: err}
	}

	return &Session{
		data:    data,
		reader:  r,
		decoder: d,
		skip:    skip,
	}, nil
}

// OpenFile reads the whole file at path and starts a session over it.
func OpenFile(path string, d *Decoder, skip int) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewSession(data, d, skip)
}

// Next decodes the next record. It returns io.EOF once the stream is
// exhausted. After any other error the session stays failed.
func (s *Session) Next() (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.reader.AtEnd() {
		return nil, io.EOF
	}

	rec, err := s.decoder.DecodeNext(s.reader)
	if err != nil {
		s.err = err
		return nil, err
	}
	return rec, nil
}

// ReadAt decodes the record with the given file ordinal without moving the
// session cursor. Header records cannot be read.
func (s *Session) ReadAt(index int) (*Record, error) {
	if index < s.skip {
		return nil, fmt.Errorf("record %d is a header record", index)
	}
	r := bitfield.NewReader(s.data)
	if err := r.Seek(index * s.decoder.schema.RecordBits()); err != nil {
		return nil, &DecodeError{Index: index, Err: err}
	}
	if r.AtEnd() {
		return nil, &DecodeError{Index: index, Err: bitfield.ErrTruncatedRecord}
	}
	return s.decoder.DecodeNext(r)
}

// Reset rewinds the session to the first data record.
func (s *Session) Reset() error {
	s.err = nil
	return s.reader.Seek(s.skip * s.decoder.schema.RecordBits())
}

// Len returns the number of complete data records after the skipped ones.
func (s *Session) Len() int {
	n := len(s.data)/s.decoder.OctetsPerRecord() - s.skip
	if n < 0 {
		return 0
	}
	return n
}

// Skip returns the number of leading records the session ignores.
func (s *Session) Skip() int {
	return s.skip
}

// Offset returns the cursor position in bytes.
func (s *Session) Offset() int64 {
	return int64(s.reader.Pos() / 8)
}

// Decoder returns the session's decoder.
func (s *Session) Decoder() *Decoder {
	return s.decoder
}

// Iterator returns a streaming iterator over the remaining records.
func (s *Session) Iterator() Iterator {
	return &sessionIterator{session: s}
}

// Iterator provides streaming access to records.
type Iterator interface {
	Next() bool
	Record() *Record
	// Err returns the error that stopped iteration, or nil at end of file.
	Err() error
}

type sessionIterator struct {
	session *Session
	record  *Record
	err     error
}

func (it *sessionIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.record, it.err = it.session.Next()
	return it.err == nil
}

func (it *sessionIterator) Record() *Record {
	return it.record
}

func (it *sessionIterator) Err() error {
	if errors.Is(it.err, io.EOF) {
		return nil
	}
	return it.err
}
