// Package config loads signmatch settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ayusman/signmatch/internal/gesture"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Environment variables that override file settings.
const (
	EnvDB   = "SIGNMATCH_DB"
	EnvAddr = "SIGNMATCH_ADDR"
	EnvTopK = "SIGNMATCH_TOP_K"
)

// Config is the complete signmatch configuration.
type Config struct {
	Matching MatchingConfig `yaml:"matching"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
}

// MatchingConfig controls profile building and ranking.
type MatchingConfig struct {
	ResampleSize int             `yaml:"resample_size"`
	Radius       int             `yaml:"radius"`
	TopK         int             `yaml:"top_k"`
	Workers      int             `yaml:"workers"`
	Timeout      time.Duration   `yaml:"timeout"`
	Weights      gesture.Weights `yaml:"weights"`
}

// StoreConfig locates the library database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			ResampleSize: gesture.DefaultFrames,
			Radius:       1,
			TopK:         10,
			Workers:      0,
			Timeout:      30 * time.Second,
			Weights:      gesture.DefaultWeights(),
		},
		Store: StoreConfig{
			Path: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "signmatch.db"
	}
	return filepath.Join(homeDir, ".signmatch", "signmatch.db")
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file leaves the
// defaults in place.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			// Config file is optional
			if !os.IsNotExist(err) {
				return nil, err
			}
			slog.Debug("config file not found, using defaults", "path", path)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvTopK); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvTopK, v, err)
		}
		cfg.Matching.TopK = k
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	m := c.Matching
	switch {
	case m.ResampleSize < 2:
		return fmt.Errorf("%w: matching.resample_size must be at least 2, got %d", ErrInvalid, m.ResampleSize)
	case m.Radius < 0:
		return fmt.Errorf("%w: matching.radius must not be negative, got %d", ErrInvalid, m.Radius)
	case m.Workers < 0:
		return fmt.Errorf("%w: matching.workers must not be negative, got %d", ErrInvalid, m.Workers)
	case m.Timeout < 0:
		return fmt.Errorf("%w: matching.timeout must not be negative, got %s", ErrInvalid, m.Timeout)
	}
	if err := m.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: matching.weights: %v", ErrInvalid, err)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required", ErrInvalid)
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
