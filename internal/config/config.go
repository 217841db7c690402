package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var backends = []string{BackendSQLite, BackendFile, BackendMemory, BackendRedis, BackendPostgres}

// Config is the root configuration. Priority: ENV > YAML > env-default tags.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Editor  EditorConfig  `yaml:"editor"`
}

// StorageConfig selects and configures the slot backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"    env:"TAJAWAL_STORAGE"    env-default:"sqlite"`
	Dir       string `yaml:"dir"        env:"TAJAWAL_DIR"`
	KeyPrefix string `yaml:"key_prefix" env:"TAJAWAL_KEY_PREFIX" env-default:"tajawal:itinerary:"`

	RedisAddr     string `yaml:"redis_addr"     env:"TAJAWAL_REDIS_ADDR"     env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"TAJAWAL_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"TAJAWAL_REDIS_DB"       env-default:"0"`

	PostgresDSN string `yaml:"postgres_dsn" env:"TAJAWAL_POSTGRES_DSN"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"TAJAWAL_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"TAJAWAL_LOG_FORMAT" env-default:"text"`
}

// EditorConfig holds editor defaults.
type EditorConfig struct {
	DefaultTrip string `yaml:"default_trip" env:"TAJAWAL_TRIP" env-default:"demo"`
}

// Dir returns the configuration directory (~/.tajawal unless TAJAWAL_CONFIG_DIR is set).
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tajawal).
	if v := strings.TrimSpace(os.Getenv("TAJAWAL_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tajawal"), nil
}

// DataDir returns the storage directory, defaulting to <config dir>/data.
func (c *Config) DataDir() (string, error) {
	if d := strings.TrimSpace(c.Storage.Dir); d != "" {
		return filepath.Clean(d), nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// Validate checks backend names and the fields each backend requires.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be one of %s (got %q)", strings.Join(backends, ", "), c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.KeyPrefix) == "" {
		return fmt.Errorf("storage.key_prefix must not be empty")
	}
	switch c.Storage.Backend {
	case BackendRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return fmt.Errorf("storage.redis_db must be >= 0 (got %d)", c.Storage.RedisDB)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	if strings.TrimSpace(c.Editor.DefaultTrip) == "" {
		c.Editor.DefaultTrip = "demo"
	}
	return nil
}
