package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/etlcdb/internal/fixture"
	"github.com/ssargent/etlcdb/pkg/config"
	"github.com/ssargent/etlcdb/pkg/di"
	"github.com/ssargent/etlcdb/pkg/export"
	"github.com/ssargent/etlcdb/pkg/schema"
)

// writeETL8B writes an ETL8B file with あ, 亜 and い to dir and returns its path.
func writeETL8B(t *testing.T, dir string) string {
	t.Helper()
	s, err := schema.Lookup("ETL8B")
	require.NoError(t, err)

	ink := make([]uint8, 64*63)
	for i := range ink {
		ink[i] = 1
	}
	path := filepath.Join(dir, "ETL8B2C1")
	data := fixture.File(s,
		fixture.Sample(s, "2422", ink, nil),
		fixture.Sample(s, "3021", nil, nil),
		fixture.Sample(s, "2424", nil, nil),
	)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func testContainer(mutate func(cfg *config.Config)) *di.Container {
	cfg := config.DefaultConfig()
	cfg.Resize.Width = 4
	cfg.Resize.Height = 4
	if mutate != nil {
		mutate(cfg)
	}
	return di.NewContainer(cfg, nil)
}

func TestUnpackFile_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)

	stats, out, err := unpackFile(context.Background(), testContainer(nil), path, unpackOptions{})
	require.NoError(t, err)

	assert.Equal(t, path+".csv", out)
	assert.Equal(t, 3, stats.Decoded)
	assert.Equal(t, 2, stats.Exported)
	assert.Equal(t, 1, stats.Filtered)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	// あ and い are labels 0 and 1 of the default hiragana set.
	assert.True(t, strings.HasPrefix(lines[0], "0,1,1,"))
	assert.True(t, strings.HasPrefix(lines[1], "1,0,0,"))
	assert.Len(t, strings.Split(lines[0], ","), 17)
}

func TestUnpackFile_PebbleAndImages(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)
	imgDir := filepath.Join(dir, "img")

	c := testContainer(func(cfg *config.Config) {
		cfg.Output.Dir = filepath.Join(dir, "out")
		cfg.Images.Format = "bmp"
	})
	stats, out, err := unpackFile(context.Background(), c, path, unpackOptions{Sink: "pebble", ImagesDir: imgDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "ETL8B2C1.pebble"), out)
	assert.Equal(t, 2, stats.Images)
	assert.FileExists(t, filepath.Join(imgDir, "1_2422.bmp"))
	assert.FileExists(t, filepath.Join(imgDir, "3_2424.bmp"))

	sink, err := export.OpenPebbleSink(out)
	require.NoError(t, err)
	defer sink.Close()

	var labels []int
	require.NoError(t, sink.Scan(func(_ ksuid.KSUID, row export.Row) error {
		labels = append(labels, row.Label)
		return nil
	}))
	assert.Equal(t, []int{0, 1}, labels)
}

func TestUnpackFile_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)

	_, _, err := unpackFile(context.Background(), testContainer(nil), path, unpackOptions{Sink: "parquet"})
	assert.Error(t, err)

	_, _, err = unpackFile(context.Background(), testContainer(nil), path, unpackOptions{Resample: "cubic"})
	assert.Error(t, err)

	_, _, err = unpackFile(context.Background(), testContainer(nil), filepath.Join(dir, "unknown.bin"), unpackOptions{})
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "/data/ETL1C_01.csv", defaultOutputPath("/data/ETL1C_01", "", "csv"))
	assert.Equal(t, "/out/ETL1C_01.pebble", defaultOutputPath("/data/ETL1C_01", "/out", "pebble"))
}

func TestSummarizeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sum, err := summarizeFile(testContainer(nil), path, "")
	require.NoError(t, err)
	assert.Equal(t, "ETL8B", sum.Format)
	assert.Equal(t, 512, sum.Octets)
	assert.Equal(t, 3, sum.Records)
	assert.Equal(t, 1, sum.Skip)
	assert.Equal(t, int64(4*512+3), sum.Size)
	assert.Equal(t, int64(3), sum.Trailing)
}

func TestWriteFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFormats(&buf))

	out := buf.String()
	for _, name := range schema.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "64x63 1bpp")
	assert.Contains(t, out, "60x60 6bpp")
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)

	sess, err := testContainer(nil).OpenSession(path, "")
	require.NoError(t, err)
	rec, err := sess.ReadAt(1)
	require.NoError(t, err)

	var table bytes.Buffer
	require.NoError(t, writeRecordTable(&table, rec))
	assert.Contains(t, table.String(), "あ (code 2422)")
	assert.Contains(t, table.String(), "64x63 image")

	var js bytes.Buffer
	require.NoError(t, writeRecordJSON(&js, rec))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &payload))
	assert.Equal(t, "あ", payload["char"])
	assert.Equal(t, float64(1), payload["index"])

	var art bytes.Buffer
	writeImageArt(&art, rec)
	lines := strings.Split(strings.TrimSuffix(art.String(), "\n"), "\n")
	assert.Len(t, lines, 63)
	assert.Equal(t, strings.Repeat("@", 64), lines[0])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl", "config.yaml")

	require.NoError(t, writeDefaultConfig(path, "/srv/euc_co59.dat", false))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/euc_co59.dat", cfg.CodeTable)

	err = writeDefaultConfig(path, "", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, writeDefaultConfig(path, "", true))
}

func TestOpenServedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeETL8B(t, dir)

	files, err := openServedFiles(testContainer(nil), []string{path}, "")
	require.NoError(t, err)
	require.Contains(t, files, "ETL8B2C1")
	assert.Equal(t, 3, files["ETL8B2C1"].Len())

	_, err = openServedFiles(testContainer(nil), []string{path, path}, "")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		_, err := newLogger(level)
		assert.NoError(t, err, level)
	}
	_, err := newLogger("loud")
	assert.Error(t, err)
}
