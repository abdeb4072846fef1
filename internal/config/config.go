// Package config handles loading and saving the sbq configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/sbq/internal/coverage"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file inside the config directory.
const FileName = "config.yaml"

// Config holds the defaults an analysis starts from. Command-line flags and
// SBQ_* environment variables override individual keys.
type Config struct {
	Inventories []string `yaml:"inventories"`          // sources, see package inventory
	Input       string   `yaml:"input,omitempty"`      // text file; stdin when empty
	Output      string   `yaml:"output,omitempty"`     // report file; none when empty
	Format      string   `yaml:"format"`               // text or json
	Dictionary  string   `yaml:"dictionary,omitempty"` // Make Me a Hanzi dictionary.txt
	Union       bool     `yaml:"union"`
	PerLine     bool     `yaml:"per_line"`
	TopN        int      `yaml:"top_n"`
	BottomN     int      `yaml:"bottom_n"`
	Workers     int      `yaml:"workers"`
	Log         Log      `yaml:"log"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Inventories: []string{"inventory_traditional.txt"},
		Format:      "text",
		TopN:        coverage.DefaultTopN,
		BottomN:     coverage.DefaultTopN,
		Log:         Log{Level: "warn", Format: "text"},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory when needed.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Options converts the analysis keys to coverage options.
func (c *Config) Options() coverage.Options {
	return coverage.Options{
		Union:       c.Union,
		TopN:        c.TopN,
		BottomN:     c.BottomN,
		PerLine:     c.PerLine,
		LineWorkers: c.Workers,
	}
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sbq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sbq"), nil
}
