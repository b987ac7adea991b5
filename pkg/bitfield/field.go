package bitfield

import "fmt"

const hexDigits = "0123456789abcdef"

// Field is one named entry of a record layout.
type Field struct {
	Name string
	Kind Kind
}

// Kind describes how a field is laid out in the bit stream. The set of kinds
// is closed; use UInt, Bytes, Hex, Pad and Repeat to build one.
type Kind interface {
	// Bits returns the number of bits the kind consumes.
	Bits() int
	String() string

	read(r *Reader) (any, error)
	producesValue() bool
}

// TotalBits returns the bit length of a field list.
func TotalBits(fields []Field) int {
	total := 0
	for _, f := range fields {
		total += f.Kind.Bits()
	}
	return total
}

// UInt is an unsigned big-endian integer of n bits, decoded as uint64.
func UInt(n int) Kind { return uintKind(n) }

// Bytes is an opaque blob of n octets, decoded as []byte.
func Bytes(n int) Kind { return bytesKind(n) }

// Hex is n bits rendered as lowercase hexadecimal digits, decoded as string.
// n must be a multiple of 4.
func Hex(n int) Kind { return hexKind(n) }

// Pad skips n bits and yields no value.
func Pad(n int) Kind { return padKind(n) }

// Repeat reads kind count times and yields a []any of the decoded values.
func Repeat(count int, kind Kind) Kind { return repeatKind{count: count, kind: kind} }

// Shape identifies the family of a Kind.
type Shape int

const (
	ShapeUInt Shape = iota + 1
	ShapeBytes
	ShapeHex
	ShapePad
	ShapeRepeat
)

// Layout reports the family of k and its size parameter: bits for UInt, Hex
// and Pad, octets for Bytes, the count for Repeat. elem is the repeated kind
// and is nil otherwise.
func Layout(k Kind) (shape Shape, n int, elem Kind) {
	switch k := k.(type) {
	case uintKind:
		return ShapeUInt, int(k), nil
	case bytesKind:
		return ShapeBytes, int(k), nil
	case hexKind:
		return ShapeHex, int(k), nil
	case padKind:
		return ShapePad, int(k), nil
	case repeatKind:
		return ShapeRepeat, k.count, k.kind
	default:
		return 0, 0, nil
	}
}

type uintKind int

func (k uintKind) Bits() int           { return int(k) }
func (k uintKind) String() string      { return fmt.Sprintf("uint:%d", int(k)) }
func (k uintKind) producesValue() bool { return true }
func (k uintKind) read(r *Reader) (any, error) {
	return r.ReadUint(int(k))
}

type bytesKind int

func (k bytesKind) Bits() int           { return int(k) * 8 }
func (k bytesKind) String() string      { return fmt.Sprintf("bytes:%d", int(k)) }
func (k bytesKind) producesValue() bool { return true }
func (k bytesKind) read(r *Reader) (any, error) {
	return r.ReadBytes(int(k))
}

type hexKind int

func (k hexKind) Bits() int           { return int(k) }
func (k hexKind) String() string      { return fmt.Sprintf("hex:%d", int(k)) }
func (k hexKind) producesValue() bool { return true }
func (k hexKind) read(r *Reader) (any, error) {
	if int(k)%4 != 0 {
		return nil, fmt.Errorf("bitfield: hex width %d is not a multiple of 4", int(k))
	}
	out := make([]byte, int(k)/4)
	for i := range out {
		nibble, err := r.ReadUint(4)
		if err != nil {
			return nil, err
		}
		out[i] = hexDigits[nibble]
	}
	return string(out), nil
}

type padKind int

func (k padKind) Bits() int           { return int(k) }
func (k padKind) String() string      { return fmt.Sprintf("pad:%d", int(k)) }
func (k padKind) producesValue() bool { return false }
func (k padKind) read(r *Reader) (any, error) {
	return nil, r.Skip(int(k))
}

type repeatKind struct {
	count int
	kind  Kind
}

func (k repeatKind) Bits() int           { return k.count * k.kind.Bits() }
func (k repeatKind) String() string      { return fmt.Sprintf("%d*%s", k.count, k.kind) }
func (k repeatKind) producesValue() bool { return true }
func (k repeatKind) read(r *Reader) (any, error) {
	values := make([]any, 0, k.count)
	for i := 0; i < k.count; i++ {
		v, err := k.kind.read(r)
		if err != nil {
			return nil, err
		}
		if k.kind.producesValue() {
			values = append(values, v)
		}
	}
	return values, nil
}
