// Package config loads kernel configuration from environment variables
// (§6 Environment). Grounded on louisbranch-fracturing.space's
// internal/platform/config/env.go, which wraps the same
// github.com/caarlos0/env/v11 parser behind a one-line ParseEnv helper;
// generalized here to the kernel's own variable set.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the kernel's environment-sourced settings (§6).
type Config struct {
	DataDir  string `env:"RPG_DATA_DIR" envDefault:"./rpg.db"`
	NodeEnv  string `env:"NODE_ENV"`
	LogLevel string `env:"RPG_LOG_LEVEL" envDefault:"info"`
}

// Load parses Config from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsTest reports whether NODE_ENV selects the in-memory test store (§6).
func (c *Config) IsTest() bool {
	return c.NodeEnv == "test"
}

// StoreDSN returns the sqlite data source this config selects: ":memory:"
// under NODE_ENV=test, otherwise DataDir (§6).
func (c *Config) StoreDSN() string {
	if c.IsTest() {
		return ":memory:"
	}
	return c.DataDir
}
