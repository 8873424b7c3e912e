package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/example/till/internal/core/receipt"
	"github.com/example/till/internal/logging"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
)

// CurrentVersion is the config file format version.
const CurrentVersion = "1"

// Config represents the flat till configuration.
// JSON keys come from .till/config.json; env tags override them.
type Config struct {
	Version               string `json:"version"`
	Variant               string `json:"variant" env:"TILL_VARIANT"`                                 // "target" or "walmart"
	Store                 string `json:"store" env:"TILL_STORE"`                                     // "sqlite" or "file"
	DBPath                string `json:"db_path,omitempty" env:"TILL_DB_PATH"`                       // sqlite file, default ~/.till/till.db
	StatePath             string `json:"state_path,omitempty" env:"TILL_STATE_PATH"`                 // JSON store file, default ~/.till/receipt.json
	Catalog               string `json:"catalog,omitempty" env:"TILL_CATALOG"`                       // file path or http(s) URL; empty uses the built-in catalog
	CatalogTimeoutSeconds int    `json:"catalog_timeout_seconds" env:"TILL_CATALOG_TIMEOUT_SECONDS"` // HTTP catalogs only
	Autosave              bool   `json:"autosave" env:"TILL_AUTOSAVE"`
	LogLevel              string `json:"log_level" env:"TILL_LOG_LEVEL"`
	Listen                string `json:"listen" env:"TILL_LISTEN"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:               CurrentVersion,
		Variant:               receipt.DefaultVariant,
		Store:                 StoreSQLite,
		CatalogTimeoutSeconds: 10,
		Autosave:              true,
		LogLevel:              "warn",
		Listen:                "127.0.0.1:8080",
	}
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, ".till", "config.json")
}

// LoadConfig reads .till/config.json from the specified directory.
// A missing file yields the defaults; keys absent from the file keep their
// default values.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	tillDir := filepath.Dir(Path(dir))
	if err := os.MkdirAll(tillDir, 0755); err != nil {
		return fmt.Errorf("failed to create .till dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overlays TILL_* environment variables onto cfg. A nil environ
// reads the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the config file in dir, applies the environment, then each
// override in order, and validates the result.
func Load(dir string, overrides ...func(*Config)) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	for _, fn := range overrides {
		fn(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := receipt.LookupVariant(c.Variant); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Store {
	case StoreSQLite, StoreFile:
	default:
		return fmt.Errorf("invalid config: store must be %q or %q, got %q", StoreSQLite, StoreFile, c.Store)
	}
	if c.CatalogTimeoutSeconds < 0 {
		return fmt.Errorf("invalid config: catalog_timeout_seconds must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// IsRemoteCatalog reports whether the catalog is fetched over HTTP.
func (c *Config) IsRemoteCatalog() bool {
	return strings.HasPrefix(c.Catalog, "http://") || strings.HasPrefix(c.Catalog, "https://")
}

// DefaultStatePath returns the default JSON store location.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".till", "state.json"), nil
}
