package pixel

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Resampler selects the interpolation used by Resize.
type Resampler int

const (
	// Nearest picks the source pixel whose center is closest to the
	// destination pixel center: sx = floor((2*dx+1)*srcW / (2*dstW)).
	Nearest Resampler = iota
	// Box averages the source area covered by each destination pixel.
	Box
	// Bilinear blends the four nearest source pixels.
	Bilinear
)

func (m Resampler) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Box:
		return "box"
	case Bilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("Resampler(%d)", int(m))
	}
}

// ParseResampler converts a name as accepted in configuration files.
func ParseResampler(name string) (Resampler, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return Nearest, nil
	case "box", "area":
		return Box, nil
	case "bilinear", "linear":
		return Bilinear, nil
	default:
		return 0, fmt.Errorf("unknown resampler %q", name)
	}
}

// Resize scales g to width x height. All methods are deterministic.
func Resize(g *Grid, width, height int, m Resampler) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixel: invalid target size %dx%d", width, height)
	}
	if width == g.width && height == g.height {
		return g, nil
	}

	src := g.Image()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	switch m {
	case Nearest:
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	case Bilinear:
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	case Box:
		gift.New(gift.Resize(width, height, gift.BoxResampling)).Draw(dst, src)
	default:
		return nil, fmt.Errorf("pixel: unknown resampler %d", int(m))
	}

	return fromGray(dst), nil
}
