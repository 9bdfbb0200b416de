// Package nfw re-exports the pieces most applications need to publish and
// observe component state.
package nfw

import (
	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/store"
)

// Re-export main types for convenience
type (
	Bucket      = core.Bucket
	Delegate    = delegate.Delegate
	Callback    = delegate.Callback
	Unsubscribe = delegate.Unsubscribe
	Option      = delegate.Option
)

// Wildcard observes every topic
const Wildcard = core.Wildcard

// NewDelegate creates a delegate on top of a key/value store
func NewDelegate(kv store.Store, opts ...Option) (*Delegate, error) {
	return delegate.New(store.NewBucketStore(kv), opts...)
}

// NewMemoryDelegate creates a delegate on an in-memory store with namespace
// already selected
func NewMemoryDelegate(namespace string, opts ...Option) (*Delegate, error) {
	d, err := NewDelegate(store.NewMemoryStore(), opts...)
	if err != nil {
		return nil, err
	}
	if err := d.SetNamespace(namespace); err != nil {
		return nil, err
	}
	return d, nil
}
