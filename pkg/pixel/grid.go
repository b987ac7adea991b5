// Package pixel rebuilds character images from packed sample bitmaps.
package pixel

import (
	"errors"
	"fmt"
	"image"

	"github.com/ssargent/etlcdb/pkg/bitfield"
)

// ErrImageSizeMismatch is returned when the packed data is too short for the
// declared dimensions and depth.
var ErrImageSizeMismatch = errors.New("image size mismatch")

// Grid is an immutable width x height grid of 8-bit intensities stored in
// row-major order.
type Grid struct {
	width  int
	height int
	pix    []uint8
}

// NewGrid copies pix into a new Grid. len(pix) must equal width*height.
func NewGrid(width, height int, pix []uint8) (*Grid, error) {
	if width < 0 || height < 0 || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrImageSizeMismatch, len(pix), width, height)
	}
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &Grid{width: width, height: height, pix: cp}, nil
}

// Reconstruct unpacks raw into a Grid. Pixels are read row-major, each one
// depth bits wide starting at bit (row*width+col)*depth. A scale greater than
// one multiplies every value and clamps the result to 255; zero or one leaves
// values as decoded.
func Reconstruct(raw []byte, width, height, depth, scale int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixel: invalid dimensions %dx%d", width, height)
	}
	if depth < 1 || depth > 8 {
		return nil, fmt.Errorf("pixel: unsupported depth %d", depth)
	}
	if need := width * height * depth; len(raw)*8 < need {
		return nil, fmt.Errorf("%w: %d bits for %dx%d at %d bpp (need %d)",
			ErrImageSizeMismatch, len(raw)*8, width, height, depth, need)
	}

	r := bitfield.NewReader(raw)
	pix := make([]uint8, width*height)
	for i := range pix {
		v, err := r.ReadUint(depth)
		if err != nil {
			return nil, err
		}
		if scale > 1 {
			v *= uint64(scale)
			if v > 255 {
				v = 255
			}
		}
		pix[i] = uint8(v)
	}

	return &Grid{width: width, height: height, pix: pix}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the intensity at column x, row y.
func (g *Grid) At(x, y int) uint8 {
	return g.pix[y*g.width+x]
}

// Pixels returns a row-major copy of the intensities.
func (g *Grid) Pixels() []uint8 {
	cp := make([]uint8, len(g.pix))
	copy(cp, g.pix)
	return cp
}

// Rows returns the grid as a slice of rows.
func (g *Grid) Rows() [][]uint8 {
	pix := g.Pixels()
	rows := make([][]uint8, g.height)
	for y := range rows {
		rows[y] = pix[y*g.width : (y+1)*g.width : (y+1)*g.width]
	}
	return rows
}

// Image returns the grid as an 8-bit grayscale image.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		copy(img.Pix[y*img.Stride:], g.pix[y*g.width:(y+1)*g.width])
	}
	return img
}

// Stretch returns a copy with every value multiplied by factor and clamped
// to 255. It turns {0,1} bilevel grids into {0,255} for display.
func (g *Grid) Stretch(factor int) *Grid {
	pix := make([]uint8, len(g.pix))
	for i, v := range g.pix {
		s := int(v) * factor
		if s > 255 {
			s = 255
		}
		pix[i] = uint8(s)
	}
	return &Grid{width: g.width, height: g.height, pix: pix}
}

func fromGray(img *image.Gray) *Grid {
	b := img.Bounds()
	g := &Grid{width: b.Dx(), height: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < g.height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(g.pix[y*g.width:], img.Pix[off:off+g.width])
	}
	return g
}
