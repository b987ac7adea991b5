/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/etlcdb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to the --config path, or to the
platform default location when no path is given.

Examples:
  etl init
  etl init --config ./etl.yaml --code-table /data/euc_co59.dat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		codeTable, _ := cmd.Flags().GetString("code-table")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if err := writeDefaultConfig(configPath, codeTable, force); err != nil {
			return err
		}
		cmd.Printf("Configuration written to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	// init must not fail on a broken config it is about to replace
	initCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
}

func writeDefaultConfig(configPath, codeTable string, force bool) error {
	if config.ConfigExists(configPath) && !force {
		return fmt.Errorf("configuration already exists at %s, use --force to overwrite", configPath)
	}
	cfg := config.DefaultConfig()
	if codeTable != "" {
		cfg.CodeTable = codeTable
	}
	return config.SaveConfig(cfg, configPath)
}
