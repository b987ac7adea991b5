package pixel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/etlcdb/internal/etltest"
)

func TestReconstruct_FourBitScaled(t *testing.T) {
	g, err := Reconstruct([]byte{0x12, 0x34}, 2, 2, 4, 16)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, [][]uint8{{16, 32}, {48, 64}}, g.Rows())
}

func TestReconstruct_ScaleClamps(t *testing.T) {
	g, err := Reconstruct([]byte{0xf8}, 2, 1, 4, 32)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255}, g.Pixels())
}

func TestReconstruct_BilevelUnscaled(t *testing.T) {
	g, err := Reconstruct([]byte{0xa0}, 3, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1}, g.Pixels())
}

func TestReconstruct_SixBit(t *testing.T) {
	// 63, 1, 32, 0 packed at 6 bits each.
	raw := etltest.PackPixels([]uint8{63, 1, 32, 0}, 6)
	g, err := Reconstruct(raw, 2, 2, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint8{252, 4, 128, 0}, g.Pixels())
}

func TestReconstruct_RoundTrip(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		depth         int
	}{
		{name: "bilevel 64x63", width: 64, height: 63, depth: 1},
		{name: "4 bpp 128x127", width: 128, height: 127, depth: 4},
		{name: "6 bpp 60x60", width: 60, height: 60, depth: 6},
		{name: "8 bpp 5x3", width: 5, height: 3, depth: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pix := make([]uint8, tc.width*tc.height)
			for i := range pix {
				pix[i] = uint8((i*7 + i/3) % (1 << tc.depth))
			}
			raw := etltest.PackPixels(pix, tc.depth)

			g, err := Reconstruct(raw, tc.width, tc.height, tc.depth, 0)
			require.NoError(t, err)
			assert.Equal(t, pix, g.Pixels())
			assert.Equal(t, raw, etltest.PackPixels(g.Pixels(), tc.depth))
		})
	}
}

func TestReconstruct_SizeMismatch(t *testing.T) {
	_, err := Reconstruct(make([]byte, 503), 64, 63, 1, 0)
	assert.True(t, errors.Is(err, ErrImageSizeMismatch))

	_, err = Reconstruct([]byte{0x12}, 2, 2, 4, 16)
	assert.True(t, errors.Is(err, ErrImageSizeMismatch))
}

func TestReconstruct_InvalidParameters(t *testing.T) {
	_, err := Reconstruct([]byte{0}, 0, 1, 1, 0)
	assert.Error(t, err)
	_, err = Reconstruct([]byte{0}, 1, 1, 9, 0)
	assert.Error(t, err)
	_, err = Reconstruct([]byte{0}, 1, 1, 0, 0)
	assert.Error(t, err)
}

func TestReconstruct_Deterministic(t *testing.T) {
	raw := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	a, err := Reconstruct(raw, 4, 4, 4, 16)
	require.NoError(t, err)
	b, err := Reconstruct(raw, 4, 4, 4, 16)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewGrid(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6}
	g, err := NewGrid(3, 2, pix)
	require.NoError(t, err)

	pix[0] = 99
	assert.Equal(t, uint8(1), g.At(0, 0))
	assert.Equal(t, uint8(6), g.At(2, 1))

	_, err = NewGrid(3, 3, pix)
	assert.True(t, errors.Is(err, ErrImageSizeMismatch))
}

func TestGrid_PixelsIsCopy(t *testing.T) {
	g, err := NewGrid(2, 1, []uint8{7, 8})
	require.NoError(t, err)

	p := g.Pixels()
	p[0] = 0
	assert.Equal(t, uint8(7), g.At(0, 0))
}

func TestGrid_Image(t *testing.T) {
	g, err := NewGrid(2, 2, []uint8{10, 20, 30, 40})
	require.NoError(t, err)

	img := g.Image()
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, uint8(30), img.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(40), img.GrayAt(1, 1).Y)
}

func TestGrid_Stretch(t *testing.T) {
	g, err := NewGrid(3, 1, []uint8{0, 1, 200})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 255}, g.Stretch(255).Pixels())
	assert.Equal(t, []uint8{0, 1, 200}, g.Pixels())
}
