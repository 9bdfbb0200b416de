package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NFW_STORAGE_BACKEND
const EnvPrefix = "NFW"

// Load layers defaults, an optional YAML file and NFW_ environment
// variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := NewConfig()
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.prefix", defaults.Storage.Prefix)
	v.SetDefault("storage.codec", defaults.Storage.Codec)
	v.SetDefault("storage.quota", defaults.Storage.Quota)
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.ttl", "0s")
	v.SetDefault("storage.sqlite.path", defaults.Storage.SQLite.Path)
	v.SetDefault("delegate.guard_window", defaults.Delegate.GuardWindow.String())
	v.SetDefault("delegate.max_depth", defaults.Delegate.MaxDepth)
	v.SetDefault("server.addr", defaults.Server.Addr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config: %v", ErrInvalidConfig, err)
	}
	c.Storage.Backend = normalize(c.Storage.Backend)
	c.Storage.Codec = normalize(c.Storage.Codec)
	c.LogLevel = normalize(c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
