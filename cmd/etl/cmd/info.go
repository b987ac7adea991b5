/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/di"
)

// fileSummary is what info reports for one file
type fileSummary struct {
	Name     string
	Format   string
	Octets   int
	Records  int
	Skip     int
	Size     int64
	Trailing int64
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Show format and record counts of ETL files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		for _, path := range args {
			sum, err := summarizeFile(container, path, format)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cmd.Printf("%s\n", sum.Name)
			cmd.Printf("  format:         %s\n", sum.Format)
			cmd.Printf("  record length:  %d octets\n", sum.Octets)
			cmd.Printf("  records:        %s (first index %d)\n", humanize.Comma(int64(sum.Records)), sum.Skip)
			cmd.Printf("  header records: %d\n", sum.Skip)
			cmd.Printf("  size:           %s\n", humanize.Bytes(uint64(sum.Size)))
			if sum.Trailing > 0 {
				cmd.Printf("  warning:        %d trailing bytes do not form a full record\n", sum.Trailing)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("format", "f", "", "Record format (default: detected from the file name)")
}

func summarizeFile(c *di.Container, path, format string) (fileSummary, error) {
	s, err := c.Schema(path, format)
	if err != nil {
		return fileSummary{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fileSummary{}, err
	}

	octets := int64(s.OctetsPerRecord)
	records := int(fi.Size()/octets) - s.SkipRecords
	if records < 0 {
		records = 0
	}
	return fileSummary{
		Name:     filepath.Base(path),
		Format:   s.Name,
		Octets:   s.OctetsPerRecord,
		Records:  records,
		Skip:     s.SkipRecords,
		Size:     fi.Size(),
		Trailing: fi.Size() % octets,
	}, nil
}
