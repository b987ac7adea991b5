package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ssargent/etlcdb/pkg/record"
)

// ImageWriter dumps record images into a directory as
// <index>_<code>.<format>.
type ImageWriter struct {
	dir    string
	format string
}

// NewImageWriter creates dir if needed. format is png, bmp or tiff.
func NewImageWriter(dir, format string) (*ImageWriter, error) {
	if _, ok := encoders[format]; !ok {
		return nil, fmt.Errorf("unknown image format %q", format)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageWriter{dir: dir, format: format}, nil
}

// Write stores rec's image and returns the file path. Bilevel images are
// stretched to black and white.
func (w *ImageWriter) Write(rec *record.Record) (string, error) {
	g := rec.Image()
	if g == nil {
		return "", fmt.Errorf("record %d has no image", rec.Index)
	}
	if rec.Schema.Bilevel {
		g = g.Stretch(255)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%d_%s.%s", rec.Index, rec.Code(), w.format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(f, g.Image(), w.format); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return path, f.Close()
}

var encoders = map[string]func(io.Writer, image.Image) error{
	"png": png.Encode,
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	},
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unknown image format %q", format)
	}
	return enc(w, img)
}
