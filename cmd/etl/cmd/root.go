/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/config"
	"github.com/ssargent/etlcdb/pkg/di"
)

// container is populated by the root command before any subcommand runs
var container *di.Container

// SetContainer replaces the dependency container (for testing)
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "etl",
	Short: "ETL character database unpacker",
	Long: `etl decodes the fixed-length record files of the ETL handwritten
character database (ETL1 to ETL9B) into characters and pixel grids, and
exports them as labeled training data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container != nil {
			return nil
		}
		cfg, err := loadEffectiveConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}
		container = di.NewContainer(cfg, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil || container.Config().MetricsFile == "" {
			return nil
		}
		path := container.Config().MetricsFile
		if err := container.Metrics().WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
		container.Logger().Debug("metrics written", "path", path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("code-table", "", "Path to the EUC-JP CO-59 code table (euc_co59.dat)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
}

// loadEffectiveConfig reads the config file, if any, and applies the global
// flag overrides. A missing default config is not an error.
func loadEffectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if explicit || config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("code-table"); v != "" {
		cfg.CodeTable = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("metrics-file"); v != "" {
		cfg.MetricsFile = v
	}
	return cfg, nil
}

// newLogger builds a text logger on stderr at the named level
func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return slog.New(handler), nil
}
