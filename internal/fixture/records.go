// Package fixture builds synthetic ETL records and files for tests.
package fixture

import (
	"fmt"
	"strings"

	"github.com/ssargent/etlcdb/internal/etltest"
	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// Record encodes one record of s. values maps field names to uint64 (UInt),
// string (Hex), []byte (Bytes) or []uint64 (Repeat of UInt); fields not in
// values are zero. Byte blobs shorter than the field are zero padded.
func Record(s *schema.Schema, values map[string]any) []byte {
	var w etltest.BitWriter
	for _, f := range s.Fields {
		writeField(&w, f.Kind, values[f.Name])
	}
	if w.Len() != s.RecordBits() {
		panic(fmt.Sprintf("fixture: wrote %d bits for %s, want %d", w.Len(), s.Name, s.RecordBits()))
	}
	return w.Bytes()
}

// File concatenates a header record of zeros (when s skips one) and recs.
func File(s *schema.Schema, recs ...[]byte) []byte {
	var out []byte
	for i := 0; i < s.SkipRecords; i++ {
		out = append(out, make([]byte, s.OctetsPerRecord)...)
	}
	for _, r := range recs {
		out = append(out, r...)
	}
	return out
}

func writeField(w *etltest.BitWriter, k bitfield.Kind, v any) {
	shape, n, elem := bitfield.Layout(k)
	switch shape {
	case bitfield.ShapeRepeat:
		elemShape, width, _ := bitfield.Layout(elem)
		if elemShape != bitfield.ShapeUInt {
			panic(fmt.Sprintf("fixture: cannot repeat %s", elem))
		}
		elems, _ := v.([]uint64)
		for i := 0; i < n; i++ {
			var e uint64
			if i < len(elems) {
				e = elems[i]
			}
			w.WriteUint(e, width)
		}
	case bitfield.ShapeUInt:
		u, _ := v.(uint64)
		w.WriteUint(u, n)
	case bitfield.ShapeHex:
		s, _ := v.(string)
		if s == "" {
			s = strings.Repeat("0", n/4)
		}
		if len(s)*4 != n {
			panic(fmt.Sprintf("fixture: hex %q does not fill %s", s, k))
		}
		w.WriteHex(s)
	case bitfield.ShapeBytes:
		b, _ := v.([]byte)
		if len(b) > n {
			panic(fmt.Sprintf("fixture: %d bytes overflow %s", len(b), k))
		}
		w.WriteBytes(b)
		w.WriteZeros((n - len(b)) * 8)
	case bitfield.ShapePad:
		w.WriteZeros(n)
	default:
		panic(fmt.Sprintf("fixture: unknown kind %v", k))
	}
}

// Sample encodes a record of s carrying code in the character field and pix
// (values at the schema's pixel depth, row-major) in the image field. A nil
// pix leaves the image blank.
func Sample(s *schema.Schema, code string, pix []uint8, extra map[string]any) []byte {
	values := map[string]any{s.CharField: code}
	for k, v := range extra {
		values[k] = v
	}
	if pix != nil {
		img, ok := s.Image()
		if !ok {
			panic("fixture: schema has no image transform")
		}
		values[s.ImageField] = etltest.PackPixels(pix, img.Depth)
	}
	return Record(s, values)
}

// Gradient returns width*height pixels cycling through every value of the
// given depth.
func Gradient(width, height, depth int) []uint8 {
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = uint8(i % (1 << depth))
	}
	return pix
}
