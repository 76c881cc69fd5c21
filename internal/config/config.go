// Package config loads the hooksdemo server settings from an optional YAML
// file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Address    string        `yaml:"address"`
	Title      string        `yaml:"title"`
	LogLevel   string        `yaml:"log_level"`
	DevMode    bool          `yaml:"dev_mode"`
	ContextTTL time.Duration `yaml:"context_ttl"`
	// SessionDB is the SQLite file for sessions. Empty keeps sessions in memory.
	SessionDB string `yaml:"session_db"`
	// NATSDir enables the embedded NATS backend with its data in this directory.
	NATSDir string `yaml:"nats_dir"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Address:    ":3000",
		Title:      "React Hooks demos",
		LogLevel:   "info",
		ContextTTL: 30 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted.
func (c Config) Validate() error {
	if c.Address == "" {
		return errors.New("address must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
