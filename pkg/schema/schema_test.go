package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/pixel"
)

func TestRegistry_SchemasAreConsistent(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestRegistry_RecordLengths(t *testing.T) {
	testCases := []struct {
		name   string
		octets int
		skip   int
		image  Image
	}{
		{"ETL1", 2052, 0, Image{Width: 64, Height: 63, Depth: 4, Scale: 16}},
		{"ETL2", 2745, 0, Image{Width: 60, Height: 60, Depth: 6, Scale: 4}},
		{"ETL4", 2952, 0, Image{Width: 72, Height: 76, Depth: 4, Scale: 16}},
		{"ETL8G", 8199, 0, Image{Width: 128, Height: 127, Depth: 4, Scale: 16}},
		{"ETL8B", 512, 1, Image{Width: 64, Height: 63, Depth: 1}},
		{"ETL9G", 8199, 0, Image{Width: 128, Height: 127, Depth: 4, Scale: 16}},
		{"ETL9B", 576, 1, Image{Width: 64, Height: 63, Depth: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Lookup(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.octets, s.OctetsPerRecord)
			assert.Equal(t, tc.octets*8, bitfield.TotalBits(s.Fields))
			assert.Equal(t, tc.skip, s.SkipRecords)

			img, ok := s.Image()
			require.True(t, ok)
			assert.Equal(t, tc.image, img)
		})
	}
}

func TestRegistry_BilevelFormats(t *testing.T) {
	for _, name := range []string{"ETL8B", "ETL9B"} {
		s, err := Lookup(name)
		require.NoError(t, err)
		assert.True(t, s.Bilevel)
		assert.Equal(t, pixel.Nearest, s.Resample)
	}
	s, err := Lookup("ETL8G")
	require.NoError(t, err)
	assert.False(t, s.Bilevel)
}

func TestDetect(t *testing.T) {
	testCases := []struct {
		file string
		want string
	}{
		{"ETL1C_01", "ETL1"},
		{"/data/ETL2/ETL2_3", "ETL2"},
		{"ETL3C_1", "ETL3"},
		{"ETL4C", "ETL4"},
		{"ETL5C", "ETL5"},
		{"ETL6C_12", "ETL6"},
		{"ETL7LC_1", "ETL7"},
		{"ETL8G_01", "ETL8G"},
		{"data/ETL8B2C1", "ETL8B"},
		{"ETL9G_50", "ETL9G"},
		{"etl9b_1", "ETL9B"},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			s, err := Detect(tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Name)
		})
	}
}

func TestDetect_Unknown(t *testing.T) {
	for _, file := range []string{"README", "ETL8_01", "foo/ETL", "ETL0"} {
		_, err := Detect(file)
		assert.Error(t, err, file)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("ETL10")
	assert.Error(t, err)
}

func TestSchema_ValidateRejectsBadLayouts(t *testing.T) {
	base := func() *Schema {
		return &Schema{
			Name:            "test",
			OctetsPerRecord: 3,
			Fields: []bitfield.Field{
				{Name: "code", Kind: bitfield.Hex(16)},
				{Name: "img", Kind: bitfield.Bytes(1)},
			},
			Transforms: map[string]Transform{
				"code": CharCode{Scheme: charcode.JISX0208},
				"img":  Image{Width: 2, Height: 2, Depth: 1},
			},
			CharField:  "code",
			ImageField: "img",
		}
	}
	require.NoError(t, base().Validate())

	s := base()
	s.OctetsPerRecord = 4
	assert.Error(t, s.Validate(), "length mismatch")

	s = base()
	s.Transforms["missing"] = ASCII{}
	assert.Error(t, s.Validate(), "transform for unknown field")

	s = base()
	s.CharField = "nope"
	assert.Error(t, s.Validate(), "unknown char field")

	s = base()
	delete(s.Transforms, "img")
	assert.Error(t, s.Validate(), "image without transform")

	s = base()
	s.Fields = append(s.Fields[:1], bitfield.Field{Name: "code", Kind: bitfield.Bytes(1)})
	assert.Error(t, s.Validate(), "duplicate field")
}

func TestSchema_FieldNames(t *testing.T) {
	s, err := Lookup("ETL8B")
	require.NoError(t, err)
	assert.Equal(t, []string{"Serial Sheet Number", "JIS Kanji Code", "JIS Typical Reading", "Image Data"}, s.FieldNames())
}

func TestASCII(t *testing.T) {
	v, err := ASCII{}.Apply([]byte("A.HI"), Env{})
	require.NoError(t, err)
	assert.Equal(t, "A.HI", v)

	_, err = ASCII{}.Apply([]byte{0xb1}, Env{})
	assert.True(t, errors.Is(err, ErrInvalidText))

	_, err = ASCII{}.Apply(uint64(1), Env{})
	assert.Error(t, err)
}

func TestT56(t *testing.T) {
	v, err := T56{}.Apply(uint64(17), Env{})
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	v, err = T56{}.Apply([]any{uint64(33), uint64(17), uint64(50), uint64(1)}, Env{})
	require.NoError(t, err)
	assert.Equal(t, "JAS1", v)

	_, err = T56{}.Apply(uint64(64), Env{})
	assert.True(t, errors.Is(err, ErrInvalidText))

	_, err = T56{}.Apply([]any{"x"}, Env{})
	assert.Error(t, err)
}

func TestImageTransform(t *testing.T) {
	v, err := Image{Width: 2, Height: 2, Depth: 4, Scale: 16}.Apply([]byte{0x12, 0x34}, Env{})
	require.NoError(t, err)
	g, ok := v.(*pixel.Grid)
	require.True(t, ok)
	assert.Equal(t, [][]uint8{{16, 32}, {48, 64}}, g.Rows())

	_, err = Image{Width: 4, Height: 4, Depth: 4}.Apply([]byte{0x12}, Env{})
	assert.True(t, errors.Is(err, pixel.ErrImageSizeMismatch))
}

func TestCharCodeTransform(t *testing.T) {
	env := Env{Chars: charcode.NewDecoder(nil)}
	v, err := CharCode{Scheme: charcode.JISX0208}.Apply("2422", env)
	require.NoError(t, err)
	assert.Equal(t, "あ", v)

	_, err = CharCode{Scheme: charcode.JISX0208}.Apply("2422", Env{})
	assert.Error(t, err)
}

func TestSchema_NeedsCodeTable(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name == "ETL2", s.NeedsCodeTable(), name)

		sc, ok := s.CharScheme()
		assert.True(t, ok, name)
		assert.NotZero(t, sc.Kind, name)
	}
}
