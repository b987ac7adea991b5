// Package export turns decoded records into labeled training rows and writes
// them to a sink.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ssargent/etlcdb/pkg/metrics"
	"github.com/ssargent/etlcdb/pkg/pixel"
	"github.com/ssargent/etlcdb/pkg/record"
)

// Options configures an Exporter.
type Options struct {
	Labels   *LabelSet
	Width    int
	Height   int
	Resample pixel.Resampler

	// Images, when set, receives every record whose character is kept.
	Images *ImageWriter
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Stats summarizes one export run.
type Stats struct {
	Decoded  int
	Exported int
	Filtered int
	Images   int
	Duration time.Duration
}

// Exporter drives a record session to completion and writes matching rows.
type Exporter struct {
	sink Sink
	opts Options
	log  *slog.Logger
}

// NewExporter creates an exporter writing to sink.
func NewExporter(sink Sink, opts Options) (*Exporter, error) {
	if opts.Labels == nil {
		return nil, fmt.Errorf("export: label set is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("export: invalid output size %dx%d", opts.Width, opts.Height)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{sink: sink, opts: opts, log: log}, nil
}

// Run decodes every remaining record of sess. It stops at the first decode or
// write error, or when ctx is cancelled. The sink is not closed.
func (e *Exporter) Run(ctx context.Context, sess *record.Session) (stats Stats, err error) {
	format := sess.Decoder().Schema().Name
	start := time.Now()

	defer func() {
		stats.Duration = time.Since(start)
		if e.opts.Metrics != nil {
			e.opts.Metrics.RecordDecoded(format, stats.Decoded)
			e.opts.Metrics.RecordExported(format, stats.Exported)
			e.opts.Metrics.ObserveFile(format, stats.Duration)
		}
	}()

	for {
		if err = ctx.Err(); err != nil {
			return stats, err
		}

		rec, err := sess.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if e.opts.Metrics != nil {
				e.opts.Metrics.RecordDecodeError(format, err)
			}
			return stats, err
		}
		stats.Decoded++

		row, ok, err := BuildRow(rec, e.opts.Labels, e.opts.Width, e.opts.Height, e.opts.Resample)
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.Filtered++
			e.log.Debug("record filtered", "index", rec.Index, "char", rec.Char())
			continue
		}

		if err := e.sink.Write(row); err != nil {
			return stats, fmt.Errorf("record %d: write row: %w", rec.Index, err)
		}
		stats.Exported++

		if e.opts.Images != nil {
			if _, err := e.opts.Images.Write(rec); err != nil {
				return stats, fmt.Errorf("record %d: write image: %w", rec.Index, err)
			}
			stats.Images++
		}
	}

	e.log.Info("export finished",
		"format", format,
		"decoded", stats.Decoded,
		"exported", stats.Exported,
		"filtered", stats.Filtered,
		"duration", time.Since(start))
	return stats, nil
}
