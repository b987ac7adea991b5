package codetable

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader("あ:0,1 い:0,2"))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	char, err := table.Lookup(Coord{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "あ", char)

	char, err = table.Lookup(Coord{0, 2})
	require.NoError(t, err)
	assert.Equal(t, "い", char)

	_, err = table.Lookup(Coord{9, 9})
	assert.True(t, errors.Is(err, ErrUnknownCharacterCode))
}

func TestParse_LastEntryWins(t *testing.T) {
	table, err := Parse(strings.NewReader("あ:3,4\nい:3,4\n"))
	require.NoError(t, err)

	char, err := table.Lookup(Coord{3, 4})
	require.NoError(t, err)
	assert.Equal(t, "い", char)
	assert.Equal(t, 1, table.Len())
}

func TestParse_Whitespace(t *testing.T) {
	table, err := Parse(strings.NewReader("\n\tア:1,1   イ:1,2\r\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestParse_Empty(t *testing.T) {
	table, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestParse_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "missing separator", input: "あ0,1"},
		{name: "missing character", input: ":0,1"},
		{name: "one coordinate", input: "あ:0"},
		{name: "three coordinates", input: "あ:0,1,2"},
		{name: "non-integer coordinate", input: "あ:x,1"},
		{name: "empty coordinate", input: "あ:0,"},
		{name: "bad entry after good ones", input: "あ:0,1 い:0,2 う"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Parse(strings.NewReader(tc.input))
			assert.Nil(t, table)
			assert.True(t, errors.Is(err, ErrMalformedTableEntry), "got %v", err)
		})
	}
}

func TestParse_ColonCharacter(t *testing.T) {
	table, err := Parse(strings.NewReader("::5,6"))
	require.NoError(t, err)

	char, err := table.Lookup(Coord{5, 6})
	require.NoError(t, err)
	assert.Equal(t, ":", char)
}

func TestLoad_EUCJP(t *testing.T) {
	encoded, err := japanese.EUCJP.NewEncoder().String("亜:16,1 唖:16,2")
	require.NoError(t, err)

	table, err := Load(strings.NewReader(encoded))
	require.NoError(t, err)

	char, err := table.Lookup(Coord{16, 2})
	require.NoError(t, err)
	assert.Equal(t, "唖", char)
}

func TestLoadFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "codetable_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	encoded, err := japanese.EUCJP.NewEncoder().String("あ:0,1")
	require.NoError(t, err)

	path := filepath.Join(tmpDir, "euc_co59.dat")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0600))

	table, err := LoadFile(path)
	require.NoError(t, err)
	char, err := table.Lookup(Coord{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "あ", char)

	_, err = LoadFile(filepath.Join(tmpDir, "missing.dat"))
	assert.Error(t, err)
}
