package bitfield

import (
	"errors"
	"fmt"
)

// ErrTruncatedRecord is returned when fewer bits remain in the stream than a
// read requires.
var ErrTruncatedRecord = errors.New("truncated record")

// Reader extracts bit fields from a byte buffer. The cursor is tracked in
// bits and never moves past the end of the buffer.
//
// A Reader is not safe for concurrent use. After a failed Read the cursor
// position is unspecified and the Reader should be discarded.
type Reader struct {
	data  []byte
	pos   int // current bit offset
	nbits int
}

// NewReader creates a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:  data,
		nbits: len(data) * 8,
	}
}

// Pos returns the cursor position in bits.
func (r *Reader) Pos() int { return r.pos }

// Len returns the stream length in bits.
func (r *Reader) Len() int { return r.nbits }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return r.nbits - r.pos }

// AtEnd reports whether every bit of the stream has been consumed.
func (r *Reader) AtEnd() bool { return r.pos >= r.nbits }

// Seek moves the cursor to an absolute bit offset.
func (r *Reader) Seek(bit int) error {
	if bit < 0 || bit > r.nbits {
		return fmt.Errorf("%w: seek to bit %d of %d", ErrTruncatedRecord, bit, r.nbits)
	}
	r.pos = bit
	return nil
}

// Skip advances the cursor by n bits.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("bitfield: negative skip %d", n)
	}
	if n > r.Remaining() {
		return fmt.Errorf("%w: skip %d bits with %d remaining", ErrTruncatedRecord, n, r.Remaining())
	}
	r.pos += n
	return nil
}

// Read decodes fields in order and returns one value per named field; pad
// fields advance the cursor without producing a value. The whole schema is
// checked against the remaining length before any bit is consumed.
func (r *Reader) Read(fields []Field) ([]any, error) {
	need := TotalBits(fields)
	if need > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bits, %d remaining at bit %d", ErrTruncatedRecord, need, r.Remaining(), r.pos)
	}

	values := make([]any, 0, len(fields))
	for _, f := range fields {
		v, err := f.Kind.read(r)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if f.Kind.producesValue() {
			values = append(values, v)
		}
	}
	return values, nil
}

// ReadField decodes a single field kind at the cursor.
func (r *Reader) ReadField(k Kind) (any, error) {
	if k.Bits() > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bits, %d remaining", ErrTruncatedRecord, k.Bits(), r.Remaining())
	}
	return k.read(r)
}

// ReadUint reads n bits (0 < n <= 64) as a big-endian unsigned integer.
func (r *Reader) ReadUint(n int) (uint64, error) {
	if n <= 0 || n > 64 {
		return 0, fmt.Errorf("bitfield: invalid width %d (must be 1-64)", n)
	}
	if n > r.Remaining() {
		return 0, ErrTruncatedRecord
	}

	var v uint64
	for n > 0 {
		byteIx := r.pos >> 3
		avail := 8 - r.pos&7
		take := avail
		if n < take {
			take = n
		}
		chunk := uint64(r.data[byteIx]>>(avail-take)) & (1<<take - 1)
		v = v<<take | chunk
		r.pos += take
		n -= take
	}
	return v, nil
}

// ReadBytes reads n octets. The cursor need not be byte aligned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bitfield: negative length %d", n)
	}
	if n*8 > r.Remaining() {
		return nil, ErrTruncatedRecord
	}

	out := make([]byte, n)
	if r.pos&7 == 0 {
		start := r.pos >> 3
		copy(out, r.data[start:start+n])
		r.pos += n * 8
		return out, nil
	}
	for i := range out {
		v, err := r.ReadUint(8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
