package export

import (
	"fmt"

	"github.com/ssargent/etlcdb/pkg/pixel"
	"github.com/ssargent/etlcdb/pkg/record"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// Row is one exported training sample: a class label and the normalized
// image flattened row-major.
type Row struct {
	Label  int
	Pixels []uint8
}

// BuildRow resizes rec's image to width x height and pairs it with the label
// of rec's character. ok is false when the character is not in labels.
func BuildRow(rec *record.Record, labels *LabelSet, width, height int, m pixel.Resampler) (row Row, ok bool, err error) {
	label, ok := labels.Index(rec.Char())
	if !ok {
		return Row{}, false, nil
	}

	g := rec.Image()
	if g == nil {
		return Row{}, false, fmt.Errorf("record %d has no image", rec.Index)
	}
	resized, err := pixel.Resize(g, width, height, m)
	if err != nil {
		return Row{}, false, fmt.Errorf("record %d: %w", rec.Index, err)
	}

	return Row{Label: label, Pixels: resized.Pixels()}, true, nil
}

// ResamplerFor resolves a configured method name. "auto" and "" pick the
// schema's default.
func ResamplerFor(s *schema.Schema, method string) (pixel.Resampler, error) {
	if method == "" || method == "auto" {
		return s.Resample, nil
	}
	return pixel.ParseResampler(method)
}
