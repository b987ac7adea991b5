package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/pixel"
)

// ErrInvalidText is returned when a text field holds bytes outside its
// alphabet.
var ErrInvalidText = errors.New("invalid text field")

// Env carries the shared, read-only collaborators a transform may need.
type Env struct {
	Chars *charcode.Decoder
}

// Transform post-processes one decoded field value.
type Transform interface {
	Apply(v any, env Env) (any, error)
}

// ASCII decodes a byte field as 7-bit ASCII text.
type ASCII struct{}

func (ASCII) Apply(v any, _ Env) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("ascii: unexpected value %T", v)
	}
	for _, c := range b {
		if c > 0x7f {
			return nil, fmt.Errorf("%w: byte 0x%02x is not ascii", ErrInvalidText, c)
		}
	}
	return string(b), nil
}

// t56Alphabet is the 6-bit character set used by the 36-bit word formats.
// Positions without a glyph are blanks.
const t56Alphabet = "0123456789[#@:>? ABCDEFGHI&.](<  JKLMNOPQR-$*);'|/STUVWXYZ ,%=\"!"

// T56 decodes 6-bit codes, a single uint64 or a []any of them, into text.
type T56 struct{}

func (T56) Apply(v any, _ Env) (any, error) {
	switch x := v.(type) {
	case uint64:
		return t56Char(x)
	case []any:
		var sb strings.Builder
		for _, e := range x {
			c, ok := e.(uint64)
			if !ok {
				return nil, fmt.Errorf("t56: unexpected element %T", e)
			}
			s, err := t56Char(c)
			if err != nil {
				return nil, err
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	default:
		return nil, fmt.Errorf("t56: unexpected value %T", v)
	}
}

func t56Char(c uint64) (string, error) {
	if c >= uint64(len(t56Alphabet)) {
		return "", fmt.Errorf("%w: t56 code %d", ErrInvalidText, c)
	}
	return t56Alphabet[c : c+1], nil
}

// Image rebuilds a pixel grid from a packed byte field.
type Image struct {
	Width  int
	Height int
	Depth  int // bits per pixel
	Scale  int // 0 keeps decoded values
}

func (t Image) Apply(v any, _ Env) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("image: unexpected value %T", v)
	}
	return pixel.Reconstruct(b, t.Width, t.Height, t.Depth, t.Scale)
}

// CharCode decodes a hex character-code field into a character.
type CharCode struct {
	Scheme charcode.Scheme
}

func (t CharCode) Apply(v any, env Env) (any, error) {
	code, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("charcode: unexpected value %T", v)
	}
	if env.Chars == nil {
		return nil, errors.New("charcode: no decoder configured")
	}
	return env.Chars.Decode(code, t.Scheme)
}
