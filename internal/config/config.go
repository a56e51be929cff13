// Package config resolves runtime settings: defaults, then an optional
// JSON file, then TADA_* environment variables, then command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultDataDir  = ".tada"
	defaultTheme    = "classic"
	defaultLogLevel = "warn"
	defaultAddr     = "127.0.0.1:8080"
)

var themes = map[string]bool{"classic": true, "neon": true, "mono": true}

type Config struct {
	DataDir     string `json:"data_dir,omitempty"`     // one JSON file per storage key
	Theme       string `json:"theme,omitempty"`        // classic | neon | mono
	Group       bool   `json:"group,omitempty"`        // list grouped by pending/done
	AsyncWrites bool   `json:"async_writes,omitempty"` // queue writes behind a worker
	NoColor     bool   `json:"no_color,omitempty"`
	LogLevel    string `json:"log_level,omitempty"` // debug | info | warn | error
	Addr        string `json:"addr,omitempty"`      // serve listen address
}

func DefaultConfig() Config {
	return Config{
		DataDir:  defaultDataDir,
		Theme:    defaultTheme,
		LogLevel: defaultLogLevel,
		Addr:     defaultAddr,
	}
}

// Merge applies non-zero values from source into c. Booleans can only be
// switched on.
func (c *Config) Merge(source *Config) {
	if source.DataDir != "" {
		c.DataDir = source.DataDir
	}
	if source.Theme != "" {
		c.Theme = source.Theme
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	c.Group = c.Group || source.Group
	c.AsyncWrites = c.AsyncWrites || source.AsyncWrites
	c.NoColor = c.NoColor || source.NoColor
}

// Load reads a JSON config file and merges it over the defaults.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Merge(&loaded)
	return &cfg, nil
}

// FromEnv returns the settings carried by TADA_* variables.
func FromEnv() Config {
	var c Config
	c.DataDir = strings.TrimSpace(os.Getenv("TADA_DIR"))
	c.Theme = strings.TrimSpace(os.Getenv("TADA_THEME"))
	c.Addr = strings.TrimSpace(os.Getenv("TADA_ADDR"))
	c.LogLevel = strings.TrimSpace(os.Getenv("TADA_LOG_LEVEL"))
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColor = true
	}
	return c
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if !themes[strings.ToLower(c.Theme)] {
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}
