package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourusername/nfw/core"
)

// DefaultPrefix is prepended to the namespace to form the storage key
const DefaultPrefix = "nfw-local-state-"

var (
	// ErrCorruptBucket is returned when the persisted bucket cannot be decoded
	ErrCorruptBucket = errors.New("store: corrupt state bucket")

	// ErrPersistFailed is returned when a bucket could not be written
	ErrPersistFailed = errors.New("store: persist failed")
)

// BucketStore reads and writes one serialized bucket per namespace
type BucketStore struct {
	kv     Store
	prefix string
	codec  Codec
	logger *slog.Logger
}

// BucketOption configures a BucketStore
type BucketOption func(*BucketStore)

// WithPrefix sets the storage key prefix
func WithPrefix(prefix string) BucketOption {
	return func(s *BucketStore) {
		s.prefix = prefix
	}
}

// WithCodec sets the bucket serialization format
func WithCodec(codec Codec) BucketOption {
	return func(s *BucketStore) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithLogger sets the logger used for load warnings
func WithLogger(logger *slog.Logger) BucketOption {
	return func(s *BucketStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBucketStore creates a bucket store on top of a key/value store
func NewBucketStore(kv Store, opts ...BucketOption) *BucketStore {
	s := &BucketStore{
		kv:     kv,
		prefix: DefaultPrefix,
		codec:  JSONCodec{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of namespace's bucket
func (s *BucketStore) Key(namespace string) string {
	return s.prefix + namespace
}

// Codec returns the bucket serialization format in use
func (s *BucketStore) Codec() Codec {
	return s.codec
}

// KV returns the underlying key/value store
func (s *BucketStore) KV() Store {
	return s.kv
}

// Load reads namespace's bucket.
// It always returns a usable bucket: an empty one when nothing is stored,
// when the stored value cannot be decoded or when storage fails. The error
// tells the last two cases apart.
func (s *BucketStore) Load(ctx context.Context, namespace string) (core.Bucket, error) {
	key := s.Key(namespace)

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return core.NewBucket(), nil
	}
	if err != nil {
		s.logger.Warn("cannot read state bucket", "key", key, "err", err)
		return core.NewBucket(), fmt.Errorf("load %s: %w", key, err)
	}

	bucket, err := s.codec.Unmarshal(data)
	if err != nil {
		s.logger.Warn("cannot deserialize state bucket", "key", key, "codec", s.codec.Name(), "err", err)
		return core.NewBucket(), fmt.Errorf("%w: %s: %v", ErrCorruptBucket, key, err)
	}
	return bucket, nil
}

// Save writes the whole bucket of namespace
func (s *BucketStore) Save(ctx context.Context, namespace string, bucket core.Bucket) error {
	key := s.Key(namespace)

	data, err := s.codec.Marshal(bucket)
	if err != nil {
		return fmt.Errorf("%w: %s: serialize: %v", ErrPersistFailed, key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersistFailed, key, err)
	}
	return nil
}

// Reset replaces namespace's bucket with an empty one
func (s *BucketStore) Reset(ctx context.Context, namespace string) error {
	return s.Save(ctx, namespace, core.NewBucket())
}
