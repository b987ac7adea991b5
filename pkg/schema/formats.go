package schema

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/pixel"
)

func field(name string, k bitfield.Kind) bitfield.Field {
	return bitfield.Field{Name: name, Kind: k}
}

func pad(n int) bitfield.Field {
	return bitfield.Field{Kind: bitfield.Pad(n)}
}

// etl167 covers ETL1, ETL6 and ETL7: 2052 octets, 64x63 at 4 bpp.
func etl167(name string, scheme charcode.Scheme) *Schema {
	return &Schema{
		Name:            name,
		OctetsPerRecord: 2052,
		Fields: []bitfield.Field{
			field("Data Number", bitfield.UInt(16)),
			field("Character Code", bitfield.Bytes(2)),
			field("Serial Sheet Number", bitfield.UInt(16)),
			field("JIS Code", bitfield.Hex(8)),
			field("EBCDIC Code", bitfield.Hex(8)),
			field("Evaluation of Individual Character Image", bitfield.UInt(8)),
			field("Evaluation of Character Group", bitfield.UInt(8)),
			field("Male-Female Code", bitfield.UInt(8)),
			field("Age of Writer", bitfield.UInt(8)),
			field("Serial Data Number", bitfield.UInt(32)),
			field("Industry Classification Code", bitfield.UInt(16)),
			field("Occupation Classification Code", bitfield.UInt(16)),
			field("Sheet Gathering Date", bitfield.UInt(16)),
			field("Scanning Date", bitfield.UInt(16)),
			field("Sample Position Y on Sheet", bitfield.UInt(8)),
			field("Sample Position X on Sheet", bitfield.UInt(8)),
			field("Minimum Scanned Level", bitfield.UInt(8)),
			field("Maximum Scanned Level", bitfield.UInt(8)),
			pad(32),
			field("Image Data", bitfield.Bytes(2016)),
			pad(32),
		},
		Transforms: map[string]Transform{
			"Character Code": ASCII{},
			"JIS Code":       CharCode{Scheme: scheme},
			"Image Data":     Image{Width: 64, Height: 63, Depth: 4, Scale: 16},
		},
		CharField:  "JIS Code",
		ImageField: "Image Data",
		Resample:   pixel.Box,
	}
}

// etl2 is recorded in 36-bit words with 6-bit T56 text and CO-59 codes.
func etl2() *Schema {
	return &Schema{
		Name:            "ETL2",
		OctetsPerRecord: 2745,
		Fields: []bitfield.Field{
			field("Serial Data Number", bitfield.UInt(36)),
			field("Mark of Style", bitfield.UInt(6)),
			pad(30),
			field("Contents", bitfield.Repeat(6, bitfield.UInt(6))),
			field("Style", bitfield.Repeat(6, bitfield.UInt(6))),
			pad(24),
			field("CO-59 Code", bitfield.Hex(12)),
			pad(180),
			field("Image Data", bitfield.Bytes(2700)),
		},
		Transforms: map[string]Transform{
			"Mark of Style": T56{},
			"Contents":      T56{},
			"Style":         T56{},
			"CO-59 Code":    CharCode{Scheme: charcode.CO59},
			"Image Data":    Image{Width: 60, Height: 60, Depth: 6, Scale: 4},
		},
		CharField:  "CO-59 Code",
		ImageField: "Image Data",
		Resample:   pixel.Box,
	}
}

// etl345 covers ETL3, ETL4 and ETL5: 2952 octets of 36-bit words, 72x76 at 4 bpp.
func etl345(name string, scheme charcode.Scheme) *Schema {
	return &Schema{
		Name:            name,
		OctetsPerRecord: 2952,
		Fields: []bitfield.Field{
			field("Serial Data Number", bitfield.UInt(36)),
			field("Serial Sheet Number", bitfield.UInt(36)),
			field("JIS Code", bitfield.Hex(8)),
			pad(28),
			field("EBCDIC Code", bitfield.Hex(8)),
			pad(28),
			field("4 Character Code", bitfield.Repeat(4, bitfield.UInt(6))),
			pad(12),
			field("Evaluation of Individual Character Image", bitfield.UInt(36)),
			field("Evaluation of Character Group", bitfield.UInt(36)),
			field("Sample Position Y on Sheet", bitfield.UInt(36)),
			field("Sample Position X on Sheet", bitfield.UInt(36)),
			field("Male-Female Code", bitfield.UInt(36)),
			field("Age of Writer", bitfield.UInt(36)),
			field("Industry Classification Code", bitfield.UInt(36)),
			field("Occupation Classification Code", bitfield.UInt(36)),
			field("Sheet Gathering Date", bitfield.UInt(36)),
			field("Scanning Date", bitfield.UInt(36)),
			field("Number of X-Axis Sampling Points", bitfield.UInt(36)),
			field("Number of Y-Axis Sampling Points", bitfield.UInt(36)),
			field("Number of Levels of Pixel", bitfield.UInt(36)),
			field("Magnification of Scanning Lens", bitfield.UInt(36)),
			field("Serial Data Number (old)", bitfield.UInt(36)),
			pad(1008),
			field("Image Data", bitfield.Bytes(2736)),
		},
		Transforms: map[string]Transform{
			"JIS Code":         CharCode{Scheme: scheme},
			"4 Character Code": T56{},
			"Image Data":       Image{Width: 72, Height: 76, Depth: 4, Scale: 16},
		},
		CharField:  "JIS Code",
		ImageField: "Image Data",
		Resample:   pixel.Box,
	}
}

// etlG covers ETL8G and ETL9G: 8199 octets, 128x127 at 4 bpp. They differ
// only in the padding around the image.
func etlG(name string, lead, trail int) *Schema {
	return &Schema{
		Name:            name,
		OctetsPerRecord: 8199,
		Fields: []bitfield.Field{
			field("Serial Sheet Number", bitfield.UInt(16)),
			field("JIS Kanji Code", bitfield.Hex(16)),
			field("JIS Typical Reading", bitfield.Bytes(8)),
			field("Serial Data Number", bitfield.UInt(32)),
			field("Evaluation of Individual Character Image", bitfield.UInt(8)),
			field("Evaluation of Character Group", bitfield.UInt(8)),
			field("Male-Female Code", bitfield.UInt(8)),
			field("Age of Writer", bitfield.UInt(8)),
			field("Industry Classification Code", bitfield.UInt(16)),
			field("Occupation Classification Code", bitfield.UInt(16)),
			field("Sheet Gathering Date", bitfield.UInt(16)),
			field("Scanning Date", bitfield.UInt(16)),
			field("Sample Position X on Sheet", bitfield.UInt(8)),
			field("Sample Position Y on Sheet", bitfield.UInt(8)),
			pad(lead),
			field("Image Data", bitfield.Bytes(8128)),
			pad(trail),
		},
		Transforms: map[string]Transform{
			"JIS Kanji Code":      CharCode{Scheme: charcode.JISX0208},
			"JIS Typical Reading": ASCII{},
			"Image Data":          Image{Width: 128, Height: 127, Depth: 4, Scale: 16},
		},
		CharField:  "JIS Kanji Code",
		ImageField: "Image Data",
		Resample:   pixel.Box,
	}
}

// etlB covers ETL8B and ETL9B: bilevel 64x63 images and one leading header
// record. Pixels stay {0,1}.
func etlB(name string, octets, trail int) *Schema {
	fields := []bitfield.Field{
		field("Serial Sheet Number", bitfield.UInt(16)),
		field("JIS Kanji Code", bitfield.Hex(16)),
		field("JIS Typical Reading", bitfield.Bytes(4)),
		field("Image Data", bitfield.Bytes(504)),
	}
	if trail > 0 {
		fields = append(fields, pad(trail))
	}
	return &Schema{
		Name:            name,
		OctetsPerRecord: octets,
		SkipRecords:     1,
		Fields:          fields,
		Transforms: map[string]Transform{
			"JIS Kanji Code":      CharCode{Scheme: charcode.JISX0208},
			"JIS Typical Reading": ASCII{},
			"Image Data":          Image{Width: 64, Height: 63, Depth: 1},
		},
		CharField:  "JIS Kanji Code",
		ImageField: "Image Data",
		Bilevel:    true,
		Resample:   pixel.Nearest,
	}
}

var registry = map[string]*Schema{
	"ETL1":  etl167("ETL1", charcode.JISX0201),
	"ETL2":  etl2(),
	"ETL3":  etl345("ETL3", charcode.JISX0201),
	"ETL4":  etl345("ETL4", charcode.JISX0201Hiragana),
	"ETL5":  etl345("ETL5", charcode.JISX0201),
	"ETL6":  etl167("ETL6", charcode.JISX0201),
	"ETL7":  etl167("ETL7", charcode.JISX0201Hiragana),
	"ETL8G": etlG("ETL8G", 240, 88),
	"ETL8B": etlB("ETL8B", 512, 0),
	"ETL9G": etlG("ETL9G", 272, 56),
	"ETL9B": etlB("ETL9B", 576, 512),
}

var fileNamePattern = regexp.MustCompile(`^ETL([1-9])([GB]?)`)

// Lookup returns the schema registered under name, e.g. "ETL8G".
func Lookup(name string) (*Schema, error) {
	s, ok := registry[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	return s, nil
}

// Names lists the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect picks a schema from the base name of an ETL data file, such as
// "ETL8G_01" or "ETL1C_07".
func Detect(filename string) (*Schema, error) {
	base := strings.ToUpper(filepath.Base(filename))
	m := fileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("cannot detect format from file name %q", filepath.Base(filename))
	}

	name := "ETL" + m[1]
	if m[1] == "8" || m[1] == "9" {
		if m[2] == "" {
			return nil, fmt.Errorf("cannot detect format from file name %q: missing G/B suffix", filepath.Base(filename))
		}
		name += m[2]
	}
	return Lookup(name)
}
