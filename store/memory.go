package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore provides thread-safe in-memory storage for serialized buckets
type MemoryStore struct {
	values sync.Map // map[string][]byte
	quota  int
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithQuota limits the size in bytes of a single value (0 = unlimited)
func WithQuota(bytes int) MemoryOption {
	return func(s *MemoryStore) {
		s.quota = bytes
	}
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the value for a given key
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := s.values.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	data := val.([]byte)
	return append([]byte(nil), data...), nil
}

// Set stores the value for a given key
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("%w: %d bytes over a %d byte limit", ErrQuotaExceeded, len(value), s.quota)
	}
	s.values.Store(key, append([]byte(nil), value...))
	return nil
}

// Delete removes the value for a given key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.values.Delete(key)
	return nil
}

// Clear removes all values
func (s *MemoryStore) Clear(_ context.Context) error {
	s.values.Range(func(key, value interface{}) bool {
		s.values.Delete(key)
		return true
	})
	return nil
}

// Len returns the number of keys held
func (s *MemoryStore) Len() int {
	n := 0
	s.values.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
