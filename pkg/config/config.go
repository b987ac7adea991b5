/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/etlcdb/pkg/pixel"
)

// DefaultLabels is the ordered set of 48 hiragana exported by default. A
// sample's class label is its index in this list.
var DefaultLabels = []string{
	"あ", "い", "う", "え", "お",
	"か", "き", "く", "け", "こ",
	"さ", "し", "す", "せ", "そ",
	"た", "ち", "つ", "て", "と",
	"な", "に", "ぬ", "ね", "の",
	"は", "ひ", "ふ", "へ", "ほ",
	"ま", "み", "む", "め", "も",
	"や", "ゆ", "よ",
	"ら", "り", "る", "れ", "ろ",
	"わ", "ゐ", "ゑ", "を", "ん",
}

// Config represents the unpacker configuration
type Config struct {
	CodeTable   string   `yaml:"code_table"`
	Labels      []string `yaml:"labels"`
	Resize      Resize   `yaml:"resize"`
	Output      Output   `yaml:"output"`
	Images      Images   `yaml:"images"`
	Serve       Serve    `yaml:"serve"`
	Logging     Logging  `yaml:"logging"`
	MetricsFile string   `yaml:"metrics_file"`
}

// Resize controls the normalized output resolution
type Resize struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Method string `yaml:"method"` // nearest, box, bilinear or auto
}

// Output selects where exported rows go
type Output struct {
	Format string `yaml:"format"` // csv or pebble
	Dir    string `yaml:"dir"`    // empty writes next to the input file
}

// Images controls optional per-record image dumps
type Images struct {
	Format string `yaml:"format"` // png, bmp or tiff
	Dir    string `yaml:"dir"`    // empty disables image dumps
}

// Serve contains HTTP browser settings
type Serve struct {
	Port int    `yaml:"port"`
	Bind string `yaml:"bind"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	labels := make([]string, len(DefaultLabels))
	copy(labels, DefaultLabels)

	return &Config{
		CodeTable: "euc_co59.dat",
		Labels:    labels,
		Resize: Resize{
			Width:  32,
			Height: 32,
			Method: "auto",
		},
		Output: Output{
			Format: "csv",
		},
		Images: Images{
			Format: "png",
		},
		Serve: Serve{
			Port: 8080,
			Bind: "127.0.0.1",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be caught by YAML decoding
func (c *Config) Validate() error {
	if c.Resize.Width <= 0 || c.Resize.Height <= 0 {
		return fmt.Errorf("resize dimensions must be positive, got %dx%d", c.Resize.Width, c.Resize.Height)
	}
	if c.Resize.Method != "auto" {
		if _, err := pixel.ParseResampler(c.Resize.Method); err != nil {
			return err
		}
	}
	switch c.Output.Format {
	case "csv", "pebble":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Images.Format {
	case "png", "bmp", "tiff":
	default:
		return fmt.Errorf("unknown image format %q", c.Images.Format)
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("label set is empty")
	}
	seen := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		if seen[l] {
			return fmt.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./etl.yaml"
	}

	return filepath.Join(homeDir, ".config", "etl", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
