package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings. Everything here has a
// sensible default, so a plain `wordagen` run needs no setup.
type Config struct {
	CacheDir string `env:"WORDAGEN_CACHE_DIR"`
	DBPath   string `env:"WORDAGEN_DB"`
	LogLevel string `env:"WORDAGEN_LOG_LEVEL" envDefault:"warn"`
}

// loadConfig parses the environment and fills in the platform cache
// directory for anything unset.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cfg.CacheDir = filepath.Join(base, "wordagen")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.CacheDir, "models.db")
	}
	return &cfg, nil
}
