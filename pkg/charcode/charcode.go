// Package charcode turns the character-code fields of ETL records into
// characters.
//
// Three schemes exist, selected per record format:
//
//   - EscapeDecode wraps the code bytes in a designator and terminator escape
//     sequence and decodes them with a stateful national encoding
//     (JIS X 0208 via ISO-2022-JP for ETL8 and ETL9).
//   - TableLookup splits the code into a coordinate pair and looks it up in a
//     CO-59 code table (ETL2).
//   - SingleByte decodes a one-octet JIS X 0201 code (ETL1 and ETL3 to ETL7),
//     optionally widening half-width katakana and folding it to hiragana.
package charcode

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/width"

	"github.com/ssargent/etlcdb/pkg/codetable"
)

var (
	// ErrInvalidCharacterCode is returned when a code is not valid under the
	// scheme's encoding.
	ErrInvalidCharacterCode = errors.New("invalid character code")
	// ErrUnknownCharacterCode is returned when a coordinate is missing from
	// the code table.
	ErrUnknownCharacterCode = codetable.ErrUnknownCharacterCode
	// ErrNoCodeTable is returned when a TableLookup scheme is used without a
	// loaded code table.
	ErrNoCodeTable = errors.New("code table not loaded")
)

// Kind tags the variant held by a Scheme.
type Kind int

const (
	EscapeDecode Kind = iota + 1
	TableLookup
	SingleByte
)

func (k Kind) String() string {
	switch k {
	case EscapeDecode:
		return "escape"
	case TableLookup:
		return "table"
	case SingleByte:
		return "single-byte"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Scheme describes how one format encodes its characters. Only the fields
// belonging to Kind are consulted.
type Scheme struct {
	Kind Kind

	// EscapeDecode and SingleByte
	Encoding  encoding.Encoding
	EscapeIn  []byte
	EscapeOut []byte

	// TableLookup: the code is split into (code >> SplitBits, code & mask).
	SplitBits int

	// SingleByte
	WidenKana bool
	Hiragana  bool
}

var (
	// JISX0208 decodes a two-octet JIS X 0208 code through ISO-2022-JP.
	JISX0208 = Scheme{
		Kind:      EscapeDecode,
		Encoding:  japanese.ISO2022JP,
		EscapeIn:  []byte{0x1b, 0x24, 0x42}, // ESC $ B
		EscapeOut: []byte{0x1b, 0x28, 0x42}, // ESC ( B
	}

	// CO59 looks a 12-bit code up as two 6-bit coordinates.
	CO59 = Scheme{
		Kind:      TableLookup,
		SplitBits: 6,
	}

	// JISX0201 decodes a one-octet code and widens half-width katakana.
	// Shift_JIS covers the printable single-octet range; the two Roman
	// positions it maps to ASCII (0x5c and 0x7e) are decoded as ¥ and ‾.
	JISX0201 = Scheme{
		Kind:      SingleByte,
		Encoding:  japanese.ShiftJIS,
		WidenKana: true,
	}

	// JISX0201Hiragana is JISX0201 with katakana folded to hiragana, for
	// datasets that store hiragana samples under katakana codes.
	JISX0201Hiragana = Scheme{
		Kind:      SingleByte,
		Encoding:  japanese.ShiftJIS,
		WidenKana: true,
		Hiragana:  true,
	}
)

// Decoder decodes character codes. It holds no mutable state and is safe for
// concurrent use.
type Decoder struct {
	table *codetable.Table
}

// NewDecoder creates a decoder. table may be nil when no TableLookup scheme
// will be used.
func NewDecoder(table *codetable.Table) *Decoder {
	return &Decoder{table: table}
}

// Decode converts a hex character code under scheme s.
func (d *Decoder) Decode(code string, s Scheme) (string, error) {
	switch s.Kind {
	case EscapeDecode:
		return decodeEscaped(code, s)
	case TableLookup:
		return d.lookup(code, s)
	case SingleByte:
		return decodeSingleByte(code, s)
	default:
		return "", fmt.Errorf("charcode: unknown scheme %v", s.Kind)
	}
}

func decodeEscaped(code string, s Scheme) (string, error) {
	raw, err := hex.DecodeString(code)
	if err != nil || len(raw) == 0 || len(raw)%2 != 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
	}
	// Both octets of a JIS X 0208 code lie in 0x21..0x7e. The ISO-2022-JP
	// decoder does not check the trail octet and maps anything else to an
	// unrelated character.
	for _, b := range raw {
		if b < 0x21 || b > 0x7e {
			return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
		}
	}

	seq := make([]byte, 0, len(s.EscapeIn)+len(raw)+len(s.EscapeOut))
	seq = append(seq, s.EscapeIn...)
	seq = append(seq, raw...)
	seq = append(seq, s.EscapeOut...)

	return decodeStrict(code, s.Encoding, seq)
}

func (d *Decoder) lookup(code string, s Scheme) (string, error) {
	if d.table == nil {
		return "", ErrNoCodeTable
	}
	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
	}

	mask := uint64(1)<<s.SplitBits - 1
	coord := codetable.Coord{C0: int(v >> s.SplitBits), C1: int(v & mask)}
	char, err := d.table.Lookup(coord)
	if err != nil {
		return "", fmt.Errorf("code %s: %w", code, err)
	}
	return char, nil
}

func decodeSingleByte(code string, s Scheme) (string, error) {
	raw, err := hex.DecodeString(code)
	if err != nil || len(raw) != 1 || !isJISX0201(raw[0]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
	}

	var char string
	if r, ok := jisx0201Roman[raw[0]]; ok {
		char = string(r)
	} else if char, err = decodeStrict(code, s.Encoding, raw); err != nil {
		return "", err
	}

	if s.WidenKana {
		char = widenKana(char)
	}
	if s.Hiragana {
		char = toHiragana(char)
	}
	return char, nil
}

// jisx0201Roman holds the two positions where JIS X 0201 Roman differs from
// ASCII. Shift_JIS decoders return the ASCII glyphs for them.
var jisx0201Roman = map[byte]rune{
	0x5c: '¥',
	0x7e: '‾',
}

// isJISX0201 reports whether b is a printable JIS X 0201 code: Roman
// 0x20..0x7e or half-width katakana 0xa1..0xdf.
func isJISX0201(b byte) bool {
	return (b >= 0x20 && b <= 0x7e) || (b >= 0xa1 && b <= 0xdf)
}

// decodeStrict decodes b and rejects any output containing the replacement
// character, which x/text decoders emit for unmapped input.
func decodeStrict(code string, enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil || len(out) == 0 || !utf8.Valid(out) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
	}
	for _, r := range string(out) {
		if r == utf8.RuneError {
			return "", fmt.Errorf("%w: %q", ErrInvalidCharacterCode, code)
		}
	}
	return string(out), nil
}

// widenKana converts half-width katakana (U+FF61..U+FF9F) to full width and
// leaves every other rune alone.
func widenKana(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 0xff61 && r <= 0xff9f {
			if w := []rune(width.Widen.String(string(r))); len(w) == 1 {
				r = w[0]
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// toHiragana folds katakana ァ..ヶ onto hiragana ぁ..ゖ.
func toHiragana(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 0x30a1 && r <= 0x30f6 {
			r -= 0x60
		}
		out = append(out, r)
	}
	return string(out)
}
