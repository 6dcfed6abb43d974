// Package config handles loading and validation of tool configuration:
// the log level and the runtime browser features used for capability
// matching.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"wd-capabilities/internal/matcher"
)

// Config holds the tool configuration.
type Config struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"

	// Features describes the local browser runtime. Nil means no feature
	// matching: the first merged candidate is always selected.
	Features *matcher.Features `yaml:"features"`
}

// Load reads configuration from a YAML file. An empty path yields the
// defaults (info logging, no feature matching). The LOG_LEVEL
// environment variable overrides the file value.
func Load(path string) (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Strict decode so typoed keys are reported, not ignored
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.LogLevel)
	}
}
