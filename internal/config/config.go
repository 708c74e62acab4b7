package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory
const AppName = "tabkit"

// Config holds CLI configuration
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty" toml:"output_format,omitempty"` // text, table, csv, json, ndjson, yaml
	InputFormat  string `yaml:"input_format,omitempty" toml:"input_format,omitempty"`   // csv, tsv, json, ndjson, yaml
	DefaultText  string `yaml:"default_text,omitempty" toml:"default_text,omitempty"`
	Header       string `yaml:"header,omitempty" toml:"header,omitempty"` // "true" when the first input row is the header
	MaxCellWidth int    `yaml:"max_cell_width,omitempty" toml:"max_cell_width,omitempty"`
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. Files ending in .toml are read as
// TOML, everything else as YAML. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		return &cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config to the given path, replacing the file atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	} else {
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		buf.Write(data)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// HeaderEnabled reports whether the header setting is on.
func (c *Config) HeaderEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.Header)) {
	case "true", "yes", "1", "on":
		return true
	default:
		return false
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
