package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/store"
)

// OpenStore builds the configured key/value backend. The returned close
// function releases its connections.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case BackendMemory:
		return store.NewMemoryStore(store.WithQuota(cfg.Storage.Quota)), noop, nil

	case BackendRedis:
		rs := store.NewRedisStore(store.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			TTL:      cfg.Storage.Redis.TTL,
		})
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Storage.Redis.Addr, err)
		}
		return rs, rs.Close, nil

	case BackendSQLite:
		ss, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Storage.SQLite.Path})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite at %s: %w", cfg.Storage.SQLite.Path, err)
		}
		return ss, ss.Close, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, cfg.Storage.Backend)
}

// NewBucketStore wraps kv with the configured prefix and codec
func NewBucketStore(cfg *Config, kv store.Store, logger *slog.Logger) (*store.BucketStore, error) {
	codec, err := store.CodecByName(cfg.Storage.Codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return store.NewBucketStore(kv,
		store.WithPrefix(cfg.Storage.Prefix),
		store.WithCodec(codec),
		store.WithLogger(logger),
	), nil
}

// NewDelegate opens the configured backend and builds a delegate on it.
// The namespace is not selected; callers pass cfg.Namespace to SetNamespace
// or to app.New.
func NewDelegate(ctx context.Context, cfg *Config, logger *slog.Logger, recorder delegate.Recorder) (*delegate.Delegate, func() error, error) {
	if logger == nil {
		logger = Logger(cfg)
	}

	kv, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	bs, err := NewBucketStore(cfg, kv, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	opts := []delegate.Option{
		delegate.WithLogger(logger),
		delegate.WithContext(ctx),
		delegate.WithGuardWindow(cfg.Delegate.GuardWindow),
		delegate.WithMaxDepth(cfg.Delegate.MaxDepth),
	}
	if recorder != nil {
		opts = append(opts, delegate.WithRecorder(recorder))
	}

	d, err := delegate.New(bs, opts...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return d, closeStore, nil
}

// Logger builds a text logger on stderr at the configured level
func Logger(cfg *Config) *slog.Logger {
	return NewLogger(cfg, os.Stderr)
}

// NewLogger builds a text logger writing to w at the configured level
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	switch normalize(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
