package record

import (
	"fmt"

	"github.com/ssargent/etlcdb/pkg/pixel"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// Record is one decoded sample. Fields holds transformed values keyed by
// field name, Raw the values as read from the stream.
type Record struct {
	Index  int
	Schema *schema.Schema
	Fields map[string]any
	Raw    map[string]any
}

// Char returns the decoded character of the sample.
func (r *Record) Char() string {
	s, _ := r.Fields[r.Schema.CharField].(string)
	return s
}

// Code returns the raw character code, e.g. "2422".
func (r *Record) Code() string {
	switch v := r.Raw[r.Schema.CharField].(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Image returns the sample's pixel grid.
func (r *Record) Image() *pixel.Grid {
	g, _ := r.Fields[r.Schema.ImageField].(*pixel.Grid)
	return g
}

// Uint returns an integer field.
func (r *Record) Uint(name string) (uint64, bool) {
	v, ok := r.Fields[name].(uint64)
	return v, ok
}

// String returns a text field.
func (r *Record) String(name string) (string, bool) {
	v, ok := r.Fields[name].(string)
	return v, ok
}
