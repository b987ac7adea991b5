package charcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/etlcdb/pkg/codetable"
)

func TestDecode_EscapeDecode(t *testing.T) {
	d := NewDecoder(nil)

	testCases := []struct {
		code string
		want string
	}{
		{code: "2422", want: "あ"},
		{code: "2473", want: "ん"},
		{code: "3021", want: "亜"},
		{code: "2522", want: "ア"},
		{code: "467c", want: "日"},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			char, err := d.Decode(tc.code, JISX0208)
			require.NoError(t, err)
			assert.Equal(t, tc.want, char)
		})
	}
}

func TestDecode_EscapeDecodeInvalid(t *testing.T) {
	d := NewDecoder(nil)

	for _, code := range []string{"", "zz21", "242", "2921", "24", "242224",
		"2400", "2420", "247f", "2480", "24ff", "0022", "7f22", "a4a2"} {
		t.Run(code, func(t *testing.T) {
			_, err := d.Decode(code, JISX0208)
			assert.True(t, errors.Is(err, ErrInvalidCharacterCode), "got %v", err)
		})
	}
}

func TestDecode_TableLookup(t *testing.T) {
	table, err := codetable.Parse(strings.NewReader("あ:0,1 い:0,2 亜:16,1"))
	require.NoError(t, err)
	d := NewDecoder(table)

	// 16<<6 | 1 = 0x401
	char, err := d.Decode("401", CO59)
	require.NoError(t, err)
	assert.Equal(t, "亜", char)

	char, err = d.Decode("002", CO59)
	require.NoError(t, err)
	assert.Equal(t, "い", char)

	_, err = d.Decode("fff", CO59)
	assert.True(t, errors.Is(err, ErrUnknownCharacterCode))

	_, err = d.Decode("xyz", CO59)
	assert.True(t, errors.Is(err, ErrInvalidCharacterCode))
}

func TestDecode_TableLookupWithoutTable(t *testing.T) {
	_, err := NewDecoder(nil).Decode("001", CO59)
	assert.True(t, errors.Is(err, ErrNoCodeTable))
}

func TestDecode_SingleByte(t *testing.T) {
	d := NewDecoder(nil)

	testCases := []struct {
		name   string
		code   string
		scheme Scheme
		want   string
	}{
		{name: "digit", code: "30", scheme: JISX0201, want: "0"},
		{name: "latin", code: "41", scheme: JISX0201, want: "A"},
		{name: "katakana widened", code: "b1", scheme: JISX0201, want: "ア"},
		{name: "katakana n", code: "dd", scheme: JISX0201, want: "ン"},
		{name: "hiragana a", code: "b1", scheme: JISX0201Hiragana, want: "あ"},
		{name: "hiragana wo", code: "a6", scheme: JISX0201Hiragana, want: "を"},
		{name: "hiragana keeps latin", code: "41", scheme: JISX0201Hiragana, want: "A"},
		{name: "yen sign", code: "5c", scheme: JISX0201, want: "¥"},
		{name: "overline", code: "7e", scheme: JISX0201, want: "‾"},
		{name: "space", code: "20", scheme: JISX0201, want: " "},
		{name: "no widening", code: "b1", scheme: Scheme{Kind: SingleByte, Encoding: JISX0201.Encoding}, want: "ｱ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			char, err := d.Decode(tc.code, tc.scheme)
			require.NoError(t, err)
			assert.Equal(t, tc.want, char)
		})
	}
}

func TestDecode_SingleByteInvalid(t *testing.T) {
	d := NewDecoder(nil)

	for _, code := range []string{"", "2422", "g1", "00", "0a", "1f", "7f", "80", "a0", "e0", "ff"} {
		_, err := d.Decode(code, JISX0201)
		assert.True(t, errors.Is(err, ErrInvalidCharacterCode), "code %q: %v", code, err)
	}
}

func TestDecode_UnknownScheme(t *testing.T) {
	_, err := NewDecoder(nil).Decode("2422", Scheme{})
	assert.Error(t, err)
}

func TestDecode_Pure(t *testing.T) {
	d := NewDecoder(nil)
	first, err := d.Decode("2422", JISX0208)
	require.NoError(t, err)
	second, err := d.Decode("2422", JISX0208)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "escape", EscapeDecode.String())
	assert.Equal(t, "table", TableLookup.String())
	assert.Equal(t, "single-byte", SingleByte.String())
}
