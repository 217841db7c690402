package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// loadDotEnv exports variables from <Dir>/.env. Variables already set in the
// environment keep their value.
func loadDotEnv() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// Path returns the YAML config location: $TAJAWAL_CONFIG, else <Dir>/config.yaml.
// explicit reports whether the path came from the environment.
func Path() (path string, explicit bool, err error) {
	if p := os.Getenv("TAJAWAL_CONFIG"); p != "" {
		return p, true, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, "config.yaml"), false, nil
}

// Load reads configuration from the YAML file (when present) and environment variables.
// A missing default file is fine; a missing explicit file is an error.
func Load() (*Config, error) {
	var cfg Config

	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	path, explicit, err := Path()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
