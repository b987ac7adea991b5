/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/di"
	"github.com/ssargent/etlcdb/pkg/export"
)

// unpackOptions are the per-run settings of the unpack command
type unpackOptions struct {
	Format    string
	Output    string
	Sink      string
	ImagesDir string
	Resample  string
}

// unpackCmd represents the unpack command
var unpackCmd = &cobra.Command{
	Use:   "unpack <file>...",
	Short: "Decode ETL files and export labeled training rows",
	Long: `Decode every record of each file, keep the samples whose character is in
the configured label set, resize their images and write one row per sample.

By default rows go to <file>.csv next to the input. A .zst output suffix
compresses the CSV; --sink pebble writes a Pebble database instead.

Examples:
  etl unpack ETL8B2C1
  etl unpack ETL8G_01 --output hiragana.csv.zst
  etl unpack ETL9B_1 --sink pebble --images ./img
  etl unpack renamed.bin --format ETL8G`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := unpackOptions{}
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Sink, _ = cmd.Flags().GetString("sink")
		opts.ImagesDir, _ = cmd.Flags().GetString("images")
		opts.Resample, _ = cmd.Flags().GetString("resample")

		if opts.Output != "" && len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input file")
		}

		for _, path := range args {
			start := time.Now()
			stats, out, err := unpackFile(cmd.Context(), container, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cmd.Printf("%s: decoded %s records, exported %s, filtered %s in %s -> %s\n",
				filepath.Base(path),
				humanize.Comma(int64(stats.Decoded)),
				humanize.Comma(int64(stats.Exported)),
				humanize.Comma(int64(stats.Filtered)),
				time.Since(start).Round(time.Millisecond),
				out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)

	unpackCmd.Flags().StringP("format", "f", "", "Record format (default: detected from the file name)")
	unpackCmd.Flags().StringP("output", "o", "", "Output path (default: <file>.csv or <file>.pebble)")
	unpackCmd.Flags().String("sink", "", "Output sink: csv or pebble (default from config)")
	unpackCmd.Flags().String("images", "", "Also write each exported sample's image into this directory")
	unpackCmd.Flags().String("resample", "", "Resize method: nearest, box, bilinear or auto (default from config)")
}

// unpackFile exports one file and returns the stats and the output path
func unpackFile(ctx context.Context, c *di.Container, path string, opts unpackOptions) (export.Stats, string, error) {
	cfg := c.Config()
	log := c.Logger().With("file", filepath.Base(path))

	sess, err := c.OpenSession(path, opts.Format)
	if err != nil {
		return export.Stats{}, "", err
	}
	s := sess.Decoder().Schema()

	method := cfg.Resize.Method
	if opts.Resample != "" {
		method = opts.Resample
	}
	resample, err := export.ResamplerFor(s, method)
	if err != nil {
		return export.Stats{}, "", err
	}

	labels, err := export.NewLabelSet(cfg.Labels)
	if err != nil {
		return export.Stats{}, "", err
	}

	sinkKind := cfg.Output.Format
	if opts.Sink != "" {
		sinkKind = opts.Sink
	}
	out := opts.Output
	if out == "" {
		out = defaultOutputPath(path, cfg.Output.Dir, sinkKind)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0750); err != nil {
		return export.Stats{}, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var sink export.Sink
	switch sinkKind {
	case "csv":
		sink, err = export.NewCSVSink(out)
	case "pebble":
		sink, err = export.OpenPebbleSink(out)
	default:
		err = fmt.Errorf("unknown sink %q", sinkKind)
	}
	if err != nil {
		return export.Stats{}, "", err
	}

	imagesDir := cfg.Images.Dir
	if opts.ImagesDir != "" {
		imagesDir = opts.ImagesDir
	}
	var images *export.ImageWriter
	if imagesDir != "" {
		images, err = export.NewImageWriter(imagesDir, cfg.Images.Format)
		if err != nil {
			sink.Close()
			return export.Stats{}, "", err
		}
	}

	log.Info("unpacking",
		"format", s.Name,
		"records", sess.Len(),
		"size", humanize.Bytes(uint64(sess.Len()*s.OctetsPerRecord)),
		"resample", resample.String(),
		"output", out)

	exp, err := export.NewExporter(sink, export.Options{
		Labels:   labels,
		Width:    cfg.Resize.Width,
		Height:   cfg.Resize.Height,
		Resample: resample,
		Images:   images,
		Metrics:  c.Metrics(),
		Logger:   log,
	})
	if err != nil {
		sink.Close()
		return export.Stats{}, "", err
	}

	stats, runErr := exp.Run(ctx, sess)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close %s: %w", out, err)
	}
	return stats, out, runErr
}

// defaultOutputPath places the output next to the input, or in dir when set
func defaultOutputPath(path, dir, sink string) string {
	ext := ".csv"
	if sink == "pebble" {
		ext = ".pebble"
	}
	if dir == "" {
		return path + ext
	}
	return filepath.Join(dir, filepath.Base(path)+ext)
}
