// Package codetable loads the CO-59 code table that maps coordinate pairs to
// characters for the ETL2 dataset.
//
// The resource is an EUC-JP text file of whitespace separated tokens of the
// form "<character>:<coord0>,<coord1>". When a coordinate appears more than
// once the last entry wins.
package codetable

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

var (
	// ErrMalformedTableEntry is returned for a token that is not
	// "<character>:<int>,<int>".
	ErrMalformedTableEntry = errors.New("malformed code table entry")
	// ErrUnknownCharacterCode is returned when a coordinate is not in the table.
	ErrUnknownCharacterCode = errors.New("unknown character code")
)

// Coord is a CO-59 coordinate pair.
type Coord struct {
	C0, C1 int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.C0, c.C1)
}

// Table is an immutable coordinate to character mapping. It is safe for
// concurrent lookups.
type Table struct {
	entries map[Coord]string
}

// Parse reads a table from UTF-8 text.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{entries: make(map[Coord]string)}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		char, coord, err := parseEntry(scanner.Text())
		if err != nil {
			return nil, err
		}
		t.entries[coord] = char
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read code table: %w", err)
	}

	return t, nil
}

// Load reads a table from EUC-JP encoded text.
func Load(r io.Reader) (*Table, error) {
	return Parse(japanese.EUCJP.NewDecoder().Reader(r))
}

// LoadFile reads an EUC-JP encoded table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open code table: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Lookup returns the character stored at c.
func (t *Table) Lookup(c Coord) (string, error) {
	char, ok := t.entries[c]
	if !ok {
		return "", fmt.Errorf("%w: (%s)", ErrUnknownCharacterCode, c)
	}
	return char, nil
}

// Len returns the number of distinct coordinates.
func (t *Table) Len() int {
	return len(t.entries)
}

func parseEntry(token string) (string, Coord, error) {
	sep := strings.LastIndexByte(token, ':')
	if sep <= 0 {
		return "", Coord{}, fmt.Errorf("%w: %q", ErrMalformedTableEntry, token)
	}

	parts := strings.Split(token[sep+1:], ",")
	if len(parts) != 2 {
		return "", Coord{}, fmt.Errorf("%w: %q", ErrMalformedTableEntry, token)
	}
	c0, err0 := strconv.Atoi(parts[0])
	c1, err1 := strconv.Atoi(parts[1])
	if err0 != nil || err1 != nil {
		return "", Coord{}, fmt.Errorf("%w: %q", ErrMalformedTableEntry, token)
	}

	return token[:sep], Coord{C0: c0, C1: c1}, nil
}
