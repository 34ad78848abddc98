package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the docuscope-tag configuration file.
type Config struct {
	Dictionary         DictionaryConfig `mapstructure:"dictionary"`
	Label              string           `mapstructure:"label"`
	Cache              CacheConfig      `mapstructure:"cache"`
	Database           DatabaseConfig   `mapstructure:"database"`
	ExcludedTokenTypes []string         `mapstructure:"excluded_token_types"`
}

// DictionaryConfig selects which rule dictionary and backend to tag with.
type DictionaryConfig struct {
	Path    string `mapstructure:"path"`
	Backend string `mapstructure:"backend"` // "memory" or "postgres"
}

// CacheConfig configures the in-process LRU cache and the optional shared
// L2 cache.
type CacheConfig struct {
	LRUSize int               `mapstructure:"lru_size"`
	Shared  SharedCacheConfig `mapstructure:"shared"`
}

// SharedCacheConfig configures the optional Redis-backed distributed
// cache fronting a remote rule store.
type SharedCacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// DatabaseConfig holds the Postgres connection string for the "postgres"
// dictionary backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Load loads the configuration from docuscope-tag.yml or
// docuscope-tag.yaml in the current directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("dictionary.path", "./dictionary.json.gz")
	v.SetDefault("dictionary.backend", "memory")
	v.SetDefault("label", "docuscope")
	v.SetDefault("cache.lru_size", 4096)
	v.SetDefault("cache.shared.enabled", false)
	v.SetDefault("cache.shared.redis_addr", "localhost:6379")
	v.SetDefault("excluded_token_types", []string{"WHITESPACE", "NEWLINE"})

	v.SetConfigName("docuscope-tag")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDatabaseURL returns the Postgres connection string from the
// DATABASE_URL environment variable, falling back to the config file.
func GetDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	cfg, err := Load()
	if err != nil {
		return ""
	}
	return cfg.Database.URL
}

// InProject reports whether the current directory has a docuscope-tag
// configuration file.
func InProject() bool {
	if _, err := os.Stat("docuscope-tag.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("docuscope-tag.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot walks up from the working directory looking for a
// docuscope-tag configuration file.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "docuscope-tag.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "docuscope-tag.yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a docuscope-tag project (no docuscope-tag.yaml found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	switch cfg.Dictionary.Backend {
	case "memory", "postgres":
	default:
		return fmt.Errorf("dictionary.backend must be 'memory' or 'postgres', got: %s", cfg.Dictionary.Backend)
	}
	if cfg.Dictionary.Backend == "postgres" && cfg.Database.URL == "" && os.Getenv("DATABASE_URL") == "" {
		return fmt.Errorf("dictionary.backend is 'postgres' but no database.url or DATABASE_URL is set")
	}
	return nil
}
