package api

import (
	"context"

	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/store"
)

// BucketReader reads the persisted bucket of a namespace that another
// process owns. Unlike a delegate it never selects, and so never resets,
// the namespace.
type BucketReader struct {
	ctx       context.Context
	store     *store.BucketStore
	namespace string
}

// Ensure BucketReader implements StateReader interface
var _ StateReader = (*BucketReader)(nil)

// NewBucketReader creates a reader for namespace
func NewBucketReader(ctx context.Context, bs *store.BucketStore, namespace string) *BucketReader {
	return &BucketReader{ctx: ctx, store: bs, namespace: namespace}
}

// Namespace returns the inspected namespace
func (r *BucketReader) Namespace() string {
	return r.namespace
}

// GetStateBucket loads the bucket, empty when it cannot be read.
// Load logs the failure.
func (r *BucketReader) GetStateBucket() core.Bucket {
	bucket, _ := r.store.Load(r.ctx, r.namespace)
	return bucket
}
