package export

import (
	"fmt"
)

// MaxLabels is the largest label set a Row label can index; Pebble values
// store the label in one byte.
const MaxLabels = 256

// LabelSet is the ordered list of characters kept by an export. A character's
// class label is its position in the list.
type LabelSet struct {
	chars []string
	index map[string]int
}

// NewLabelSet builds a label set. Characters must be unique.
func NewLabelSet(chars []string) (*LabelSet, error) {
	if len(chars) == 0 {
		return nil, fmt.Errorf("label set is empty")
	}
	if len(chars) > MaxLabels {
		return nil, fmt.Errorf("label set has %d entries, max %d", len(chars), MaxLabels)
	}

	ls := &LabelSet{
		chars: make([]string, len(chars)),
		index: make(map[string]int, len(chars)),
	}
	copy(ls.chars, chars)
	for i, c := range chars {
		if _, dup := ls.index[c]; dup {
			return nil, fmt.Errorf("duplicate label %q", c)
		}
		ls.index[c] = i
	}
	return ls, nil
}

// Index returns the class label of char.
func (ls *LabelSet) Index(char string) (int, bool) {
	i, ok := ls.index[char]
	return i, ok
}

// Char returns the character with class label i.
func (ls *LabelSet) Char(i int) (string, bool) {
	if i < 0 || i >= len(ls.chars) {
		return "", false
	}
	return ls.chars[i], true
}

func (ls *LabelSet) Len() int {
	return len(ls.chars)
}
