package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2388
	defaultEnv        = "development"
	defaultDriver     = "sqlite"
	defaultSQLitePath = "inkwell.db"
)

// DatabaseConfig selects the backing store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "mysql" | "sqlite"
	DSN    string `yaml:"dsn"`    // MySQL DSN
	Path   string `yaml:"path"`   // SQLite file path
}

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port     int            `yaml:"port"`
	Env      string         `yaml:"env"` // "development" | "production"
	Database DatabaseConfig `yaml:"database"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Load reads the YAML config at path, applying defaults for anything
// omitted. A missing file yields the pure-default config.
func Load(configPath string) (*AppConfig, error) {
	cfg := &AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Driver: defaultDriver,
			Path:   defaultSQLitePath,
		},
	}

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	switch cfg.Database.Driver {
	case "mysql":
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("config %s: mysql driver requires database.dsn", path)
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			cfg.Database.Path = defaultSQLitePath
		}
	default:
		return nil, fmt.Errorf("config %s: unknown database driver %q", path, cfg.Database.Driver)
	}
	return cfg, nil
}
