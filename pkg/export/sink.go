package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/ksuid"
)

// Sink receives exported rows.
type Sink interface {
	Write(row Row) error
	Close() error
}

// CSVSink writes one line per row: the label followed by every pixel value.
type CSVSink struct {
	w       *csv.Writer
	closers []io.Closer
	fields  []string
}

// NewCSVSink creates path. A ".zst" suffix compresses the output with zstd.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	if !strings.HasSuffix(path, ".zst") {
		buf := bufio.NewWriter(f)
		return &CSVSink{
			w:       csv.NewWriter(buf),
			closers: []io.Closer{flushCloser{buf}, f},
		}, nil
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start zstd stream: %w", err)
	}
	return &CSVSink{
		w:       csv.NewWriter(zw),
		closers: []io.Closer{zw, f},
	}, nil
}

// NewCSVWriter writes rows to w. Closing the sink flushes but does not close w.
func NewCSVWriter(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (s *CSVSink) Write(row Row) error {
	if cap(s.fields) < len(row.Pixels)+1 {
		s.fields = make([]string, len(row.Pixels)+1)
	}
	fields := s.fields[:len(row.Pixels)+1]
	fields[0] = strconv.Itoa(row.Label)
	for i, p := range row.Pixels {
		fields[i+1] = strconv.Itoa(int(p))
	}
	return s.w.Write(fields)
}

// Close flushes buffered rows and closes the underlying file, if any.
func (s *CSVSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type flushCloser struct {
	w *bufio.Writer
}

func (f flushCloser) Close() error {
	return f.w.Flush()
}

// PebbleSink stores rows in a Pebble database. Keys are KSUIDs, each the
// successor of the previous one, so iteration order matches write order.
// Values are the label byte followed by the pixels.
type PebbleSink struct {
	db   *pebble.DB
	last ksuid.KSUID
}

// OpenPebbleSink opens or creates the database at dir.
func OpenPebbleSink(dir string) (*PebbleSink, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store at %s: %w", dir, err)
	}
	return &PebbleSink{db: db, last: ksuid.New()}, nil
}

func (s *PebbleSink) Write(row Row) error {
	if row.Label < 0 || row.Label >= MaxLabels {
		return fmt.Errorf("label %d does not fit in one byte", row.Label)
	}
	id := s.last.Next()

	value := make([]byte, 1+len(row.Pixels))
	value[0] = byte(row.Label)
	copy(value[1:], row.Pixels)
	if err := s.db.Set(id.Bytes(), value, pebble.NoSync); err != nil {
		return err
	}
	s.last = id
	return nil
}

// Read returns the row stored under id.
func (s *PebbleSink) Read(id ksuid.KSUID) (Row, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return Row{}, err
	}
	defer closer.Close()

	return decodeRow(data)
}

// Scan calls fn for every stored row in key order.
func (s *PebbleSink) Scan(fn func(id ksuid.KSUID, row Row) error) error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return fmt.Errorf("bad key %x: %w", iter.Key(), err)
		}
		row, err := decodeRow(iter.Value())
		if err != nil {
			return fmt.Errorf("key %s: %w", id, err)
		}
		if err := fn(id, row); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close syncs and closes the database.
func (s *PebbleSink) Close() error {
	if err := s.db.Flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func decodeRow(data []byte) (Row, error) {
	if len(data) == 0 {
		return Row{}, fmt.Errorf("empty row value")
	}
	pix := make([]uint8, len(data)-1)
	copy(pix, data[1:])
	return Row{Label: int(data[0]), Pixels: pix}, nil
}
