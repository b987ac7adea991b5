/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/api"
	"github.com/ssargent/etlcdb/pkg/di"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve <file>...",
	Short: "Browse decoded records over HTTP",
	Long: `Start an HTTP server exposing the records of the given files as JSON and
PNG images, plus Prometheus metrics on /metrics.

Examples:
  etl serve ETL8B2C1 ETL8B2C2
  etl serve ETL9G_01 --port 9000 --bind 0.0.0.0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		cfg := container.Config()
		serverConfig := api.ServerConfig{Port: cfg.Serve.Port, Bind: cfg.Serve.Bind}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			serverConfig.Bind, _ = cmd.Flags().GetString("bind")
		}

		files, err := openServedFiles(container, args, format)
		if err != nil {
			return err
		}
		server := api.NewServer(files, serverConfig, container.Metrics(), container.Logger())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("format", "f", "", "Record format for all files (default: detected per file)")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
}

// openServedFiles opens every path and keys it by base name
func openServedFiles(c *di.Container, paths []string, format string) (map[string]api.RecordSource, error) {
	files := make(map[string]api.RecordSource, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if _, dup := files[name]; dup {
			return nil, fmt.Errorf("two files named %s", name)
		}
		sess, err := c.OpenSession(path, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		files[name] = sess
	}
	return files, nil
}
