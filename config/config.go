// Package config loads nfw settings and wires the store and delegate they
// describe.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/store"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// ErrInvalidConfig is returned when configuration is invalid
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the nfw configuration.
type Config struct {
	// Namespace selects the state bucket the application works on
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Delegate DelegateConfig `yaml:"delegate" mapstructure:"delegate"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// StorageConfig selects and configures the durable key/value backend.
type StorageConfig struct {
	// Backend is one of memory, redis, sqlite
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Prefix is prepended to the namespace to form the bucket key
	Prefix string `yaml:"prefix" mapstructure:"prefix"`

	// Codec is the bucket encoding: json or cbor
	Codec string `yaml:"codec" mapstructure:"codec"`

	// Quota limits a single bucket in bytes for the memory backend (0 = unlimited)
	Quota int `yaml:"quota,omitempty" mapstructure:"quota"`

	Redis  RedisConfig  `yaml:"redis,omitempty" mapstructure:"redis"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty" mapstructure:"sqlite"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password,omitempty" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl,omitempty" mapstructure:"ttl"`
}

// SQLiteConfig holds the database file location.
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DelegateConfig tunes the write path.
type DelegateConfig struct {
	// GuardWindow suppresses identical writes closer than this to the last change
	// Format: "20ms"
	GuardWindow time.Duration `yaml:"guard_window" mapstructure:"guard_window"`

	// MaxDepth bounds nested writes from callbacks, 0 disables the bound
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// ServerConfig configures the inspection server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Namespace: "nfw",
		Storage: StorageConfig{
			Backend: BackendMemory,
			Prefix:  store.DefaultPrefix,
			Codec:   "json",
			SQLite:  SQLiteConfig{Path: "nfw.db"},
		},
		Delegate: DelegateConfig{
			GuardWindow: core.DefaultGuardWindow,
			MaxDepth:    delegate.DefaultMaxDepth,
		},
		Server:   ServerConfig{Addr: ":8080"},
		LogLevel: "info",
	}
}

// LoadConfigFromFile loads configuration from a YAML file.
// Fields missing from the file keep their defaults.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidConfig)
	}

	switch c.Storage.Backend {
	case BackendMemory:
		if c.Storage.Quota < 0 {
			return fmt.Errorf("%w: quota cannot be negative", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("%w: redis backend requires an address", ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("%w: sqlite backend requires a path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	switch c.Storage.Codec {
	case "", "json", "cbor":
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Storage.Codec)
	}

	if c.Delegate.GuardWindow <= 0 {
		return fmt.Errorf("%w: guard window must be positive", ErrInvalidConfig)
	}
	if c.Delegate.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth cannot be negative", ErrInvalidConfig)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
