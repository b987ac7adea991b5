/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/pixel"
	"github.com/ssargent/etlcdb/pkg/record"
)

// artRamp maps 8-bit intensity to characters, darkest first.
const artRamp = " .:-=+*#%@"

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file> <index>",
	Short: "Print one decoded record",
	Long: `Print every field of one record. The index counts records from the start
of the file, header records included.

Examples:
  etl show ETL8B2C1 1
  etl show ETL8G_01 5 --format-out json
  etl show ETL9B_1 1 --art`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("format-out")
		art, _ := cmd.Flags().GetBool("art")

		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid record index %q", args[1])
		}

		sess, err := container.OpenSession(args[0], format)
		if err != nil {
			return err
		}
		rec, err := sess.ReadAt(index)
		if err != nil {
			container.Metrics().RecordDecodeError(sess.Decoder().Schema().Name, err)
			return err
		}
		container.Metrics().RecordDecoded(rec.Schema.Name, 1)

		switch out {
		case "json":
			return writeRecordJSON(cmd.OutOrStdout(), rec)
		case "table", "":
			if err := writeRecordTable(cmd.OutOrStdout(), rec); err != nil {
				return err
			}
			if art {
				writeImageArt(cmd.OutOrStdout(), rec)
			}
			return nil
		default:
			return fmt.Errorf("unknown output format %q", out)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("format", "f", "", "Record format (default: detected from the file name)")
	showCmd.Flags().String("format-out", "table", "Output format: table or json")
	showCmd.Flags().Bool("art", false, "Also draw the image as text")
}

// displayValue renders a field value for humans
func displayValue(v any) string {
	switch v := v.(type) {
	case []byte:
		return hex.EncodeToString(v)
	case *pixel.Grid:
		return fmt.Sprintf("%dx%d image", v.Width(), v.Height())
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func writeRecordTable(w io.Writer, rec *record.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Index\t%d\n", rec.Index)
	fmt.Fprintf(tw, "Format\t%s\n", rec.Schema.Name)
	fmt.Fprintf(tw, "Character\t%s (code %s)\n", rec.Char(), rec.Code())
	for _, name := range rec.Schema.FieldNames() {
		fmt.Fprintf(tw, "%s\t%s\n", name, displayValue(rec.Fields[name]))
	}
	return tw.Flush()
}

func writeRecordJSON(w io.Writer, rec *record.Record) error {
	fields := make(map[string]string, len(rec.Fields))
	for name, v := range rec.Fields {
		if str, ok := v.(string); ok {
			fields[name] = str
			continue
		}
		fields[name] = displayValue(v)
	}
	payload := map[string]any{
		"index":  rec.Index,
		"format": rec.Schema.Name,
		"char":   rec.Char(),
		"code":   rec.Code(),
		"fields": fields,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeImageArt(w io.Writer, rec *record.Record) {
	g := rec.Image()
	if g == nil {
		return
	}
	if rec.Schema.Bilevel {
		g = g.Stretch(255)
	}
	var b strings.Builder
	for _, row := range g.Rows() {
		for _, v := range row {
			b.WriteByte(artRamp[int(v)*(len(artRamp)-1)/255])
		}
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(w, b.String())
}
