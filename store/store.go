package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value
	ErrNotFound = errors.New("store: key not found")

	// ErrQuotaExceeded is returned when a value does not fit the store's quota
	ErrQuotaExceeded = errors.New("store: quota exceeded")

	// ErrUnavailable is returned when the backing storage cannot be reached
	ErrUnavailable = errors.New("store: storage unavailable")

	// ErrInvalidKey is returned for an empty key
	ErrInvalidKey = errors.New("store: key cannot be empty")
)

// Store defines the durable key/value capability state buckets are kept in
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
