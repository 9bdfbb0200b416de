package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newTestRedisStore connects to a local Redis instance on DB 15.
// Note: This requires a Redis instance running on localhost:6379
// Skip with: go test -short
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis integration test")
	}

	store := NewRedisStore(RedisConfig{
		Addr:      "localhost:6379",
		DB:        15, // Use separate DB for tests
		TTL:       1 * time.Minute,
		KeyPrefix: "nfw-test:",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		store.Close()
		t.Skip("Redis not available:", err)
	}

	store.Clear(context.Background())
	t.Cleanup(func() {
		store.Clear(context.Background())
		store.Close()
	})
	return store
}

func TestRedisStore_BasicOperations(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "test-key", []byte(`{"A":{"v":1}}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := store.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `{"A":{"v":1}}` {
		t.Errorf("Get() = %s, want the stored bucket", got)
	}

	// Test Delete
	store.Delete(ctx, "test-key")
	if _, err := store.Get(ctx, "test-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want %v", err, ErrNotFound)
	}

	// Test non-existent key
	if _, err := store.Get(ctx, "non-existent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(non-existent) error = %v, want %v", err, ErrNotFound)
	}
}

func TestRedisStore_BucketRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	buckets := NewBucketStore(store)

	if err := buckets.Reset(ctx, "myapp"); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	loaded, err := buckets.Load(ctx, "myapp")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() after Reset() = %v, want empty bucket", loaded)
	}
}
