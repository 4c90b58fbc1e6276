// Package config loads the optional YAML run configuration. Values from the
// file override the built-in defaults; command-line arguments override both.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable defaults of a diff run.
type Config struct {
	MaxIterations int    `yaml:"max_iterations" validate:"min=1"`   // relaxation iteration cap
	TopN          int    `yaml:"top_n" validate:"min=0"`            // ranked edges to emit; 0 suppresses ranking
	Format        string `yaml:"format" validate:"oneof=text json"` // CLI output format
	Database      string `yaml:"database"`                          // SQLite export path; checked at open time
	OutputDir     string `yaml:"output_dir"`                        // methods.csv destination; checked at write time
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxIterations: 1000,
		TopN:          10,
		Format:        "text",
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
