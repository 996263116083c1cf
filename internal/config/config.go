package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by storage.backend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all techtrack configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where the collection is kept.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json, sqlite
	Dir     string `yaml:"dir"`     // empty = working directory
	Key     string `yaml:"key"`
}

type UIConfig struct {
	Theme   string `yaml:"theme"` // classic, neon, mono
	NoColor bool   `yaml:"no_color"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stderr (CLI) / discarded (TUI)
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Key:     "techTrackerData",
		},
		UI: UIConfig{
			Theme: "classic",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// DefaultPath is ~/.techtrack/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".techtrack", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from TECHTRACK_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TECHTRACK_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("TECHTRACK_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("TECHTRACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want json|sqlite)", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key: must not be empty")
	}
	return nil
}
