/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/schema"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported record formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeFormats(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func writeFormats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tOCTETS\tSKIP\tIMAGE\tCODE\tRESIZE")
	for _, name := range schema.Names() {
		s, err := schema.Lookup(name)
		if err != nil {
			return err
		}
		img, _ := s.Image()
		scheme, _ := s.CharScheme()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%dx%d %dbpp\t%s\t%s\n",
			s.Name, s.OctetsPerRecord, s.SkipRecords,
			img.Width, img.Height, img.Depth,
			scheme.Kind, s.Resample)
	}
	return tw.Flush()
}
