// Package config handles loading vlqmap configuration from files.
//
// Configuration can be specified in a YAML (or JSON) file named vlqmap.yaml,
// .vlqmaprc or .vlqmaprc.json. The config file is searched for in the current
// directory and parent directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Format is the decode output format: text, json or csv
	Format *string `yaml:"format,omitempty" json:"format,omitempty"`

	// Color controls colored output: auto, always or never
	Color *string `yaml:"color,omitempty" json:"color,omitempty"`

	// Iterations is the number of timed runs for bench
	Iterations *int `yaml:"iterations,omitempty" json:"iterations,omitempty"`

	// Sink selects the bench sink: table or count
	Sink *string `yaml:"sink,omitempty" json:"sink,omitempty"`

	// ExpectLines, when positive, is the generated line count bench and
	// count must observe
	ExpectLines *int `yaml:"expectLines,omitempty" json:"expectLines,omitempty"`

	// CacheSize bounds the number of decoded tables kept in memory
	CacheSize *int `yaml:"cacheSize,omitempty" json:"cacheSize,omitempty"`
}

// Options are the resolved settings used by the CLI.
type Options struct {
	Format      string
	Color       string
	Iterations  int
	Sink        string
	ExpectLines int
	CacheSize   int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Format:     "text",
		Color:      "auto",
		Iterations: 10,
		Sink:       "table",
		CacheSize:  16,
	}
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"vlqmap.yaml",
	".vlqmaprc",
	".vlqmaprc.json",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path. JSON files parse
// as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Format != nil {
		switch *c.Format {
		case "text", "json", "csv":
		default:
			return fmt.Errorf("invalid format %q", *c.Format)
		}
	}
	if c.Color != nil {
		switch *c.Color {
		case "auto", "always", "never":
		default:
			return fmt.Errorf("invalid color %q", *c.Color)
		}
	}
	if c.Sink != nil {
		switch *c.Sink {
		case "table", "count":
		default:
			return fmt.Errorf("invalid sink %q", *c.Sink)
		}
	}
	if c.Iterations != nil && *c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", *c.Iterations)
	}
	if c.CacheSize != nil && *c.CacheSize < 1 {
		return fmt.Errorf("cacheSize must be at least 1, got %d", *c.CacheSize)
	}
	return nil
}

// ToOptions converts a Config to Options, using defaults for unset fields.
// A nil Config yields the defaults.
func (c *Config) ToOptions() Options {
	opts := DefaultOptions()
	if c == nil {
		return opts
	}

	if c.Format != nil {
		opts.Format = *c.Format
	}
	if c.Color != nil {
		opts.Color = *c.Color
	}
	if c.Iterations != nil {
		opts.Iterations = *c.Iterations
	}
	if c.Sink != nil {
		opts.Sink = *c.Sink
	}
	if c.ExpectLines != nil {
		opts.ExpectLines = *c.ExpectLines
	}
	if c.CacheSize != nil {
		opts.CacheSize = *c.CacheSize
	}

	return opts
}

// MergeOptions holds CLI flags (nil means not specified on CLI).
type MergeOptions struct {
	Format      *string
	Color       *string
	Iterations  *int
	Sink        *string
	ExpectLines *int
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) Options {
	opts := c.ToOptions()

	if cli.Format != nil {
		opts.Format = *cli.Format
	}
	if cli.Color != nil {
		opts.Color = *cli.Color
	}
	if cli.Iterations != nil {
		opts.Iterations = *cli.Iterations
	}
	if cli.Sink != nil {
		opts.Sink = *cli.Sink
	}
	if cli.ExpectLines != nil {
		opts.ExpectLines = *cli.ExpectLines
	}

	return opts
}
