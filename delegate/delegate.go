// Package delegate propagates topic-keyed component state.
//
// A Delegate owns one persisted state bucket per namespace, the subscriber
// lists and the per-topic last-change timestamps. Components publish with
// SetState and react through callbacks registered with Observe or
// ObserveAll:
//
//	bs := store.NewBucketStore(store.NewMemoryStore())
//	d, err := delegate.New(bs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d.SetNamespace("myapp")
//
//	unsubscribe := d.Observe("TextInput", func(topic string, b core.Bucket) error {
//	    fmt.Println(topic, "changed:", string(b.Get(topic)))
//	    return nil
//	})
//	defer unsubscribe()
//
//	d.SetState("TextInput", map[string]any{"currentValue": "hello"})
//
// # Write path
//
// SetState is the single choke point for writes. It persists the whole
// bucket and then notifies, synchronously and in order, every live global
// subscriber followed by every live subscriber of the topic. A write whose
// content leaves the bucket unchanged is dropped when it arrives within the
// guard window (20ms by default) of the topic's last change.
//
// Nothing on the write path fails loudly: encoding errors, storage errors
// and subscriber errors or panics are logged and counted, and the caller of
// SetState never sees them.
//
// # Concurrency
//
// The load/compare/persist step is serialized by a mutex. Callbacks run
// after the mutex is released so they may call SetState themselves.
// Such nested writes are bounded by WithMaxDepth. The bound counts the
// notifications in flight across all goroutines, not per call chain.
package delegate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/store"
)

// DefaultMaxDepth bounds nested SetState calls made from callbacks
const DefaultMaxDepth = 64

// Recorder defines the interface for recording delegate metrics
type Recorder interface {
	RecordWrite(topic string)
	RecordSuppressed(topic string)
	RecordPersistFailure(topic string)
	RecordCallbackFailure(topic string)
	RecordDropped(topic string)
	RecordNotified(topic string, subscribers int)
}

type noopRecorder struct{}

func (noopRecorder) RecordWrite(string)           {}
func (noopRecorder) RecordSuppressed(string)      {}
func (noopRecorder) RecordPersistFailure(string)  {}
func (noopRecorder) RecordCallbackFailure(string) {}
func (noopRecorder) RecordDropped(string)         {}
func (noopRecorder) RecordNotified(string, int)   {}

// Delegate is the shared state store and notification engine
type Delegate struct {
	id       string
	store    *store.BucketStore
	ctx      context.Context
	logger   *slog.Logger
	clock    func() time.Time
	guard    *core.Guard
	maxDepth int
	recorder Recorder

	mu         sync.Mutex // serializes the write path
	namespace  string
	bucket     core.Bucket          // last bucket known to be persisted
	lastChange map[string]time.Time // last persisted write per topic

	subMu  sync.RWMutex
	global subscriptionList
	topics map[string]*subscriptionList

	depth atomic.Int32
}

// New creates a Delegate on top of a bucket store.
// SetNamespace must be called before state is read or written.
func New(bs *store.BucketStore, opts ...Option) (*Delegate, error) {
	if bs == nil {
		return nil, fmt.Errorf("%w: bucket store cannot be nil", ErrInvalidConfig)
	}

	d := &Delegate{
		id:         uuid.NewString(),
		store:      bs,
		ctx:        context.Background(),
		logger:     slog.Default(),
		clock:      time.Now,
		guard:      core.NewGuard(core.DefaultGuardWindow),
		maxDepth:   DefaultMaxDepth,
		recorder:   noopRecorder{},
		bucket:     core.NewBucket(),
		lastChange: make(map[string]time.Time),
		topics:     make(map[string]*subscriptionList),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	d.logger = d.logger.With("delegate", d.id)

	return d, nil
}

// ID returns the unique id of this delegate instance
func (d *Delegate) ID() string {
	return d.id
}

// Logger returns the delegate's logger
func (d *Delegate) Logger() *slog.Logger {
	return d.logger
}

// SetNamespace selects the namespace whose bucket is read and written and
// resets that bucket to empty. Subscriptions are kept.
func (d *Delegate) SetNamespace(name string) error {
	if name == "" {
		return ErrInvalidNamespace
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Reset(d.ctx, name); err != nil {
		d.logger.Error("cannot reset state bucket", "namespace", name, "err", err)
		return fmt.Errorf("reset namespace %s: %w", name, err)
	}

	if d.namespace != "" && d.namespace != name {
		d.logger.Info("switching namespace", "from", d.namespace, "to", name)
	}
	d.namespace = name
	d.bucket = core.NewBucket()

	d.logger.Info("namespace ready", "namespace", name, "key", d.store.Key(name))
	return nil
}

// Namespace returns the active namespace, empty if none was set
func (d *Delegate) Namespace() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.namespace
}

// BucketKey returns the storage key of the active namespace's bucket
func (d *Delegate) BucketKey() string {
	return d.store.Key(d.Namespace())
}

// ObserveAll registers cb for changes to every topic
func (d *Delegate) ObserveAll(cb Callback) Unsubscribe {
	if cb == nil {
		d.logger.Warn("ignoring nil state change callback", "topic", core.Wildcard)
		return noopUnsubscribe
	}

	d.subMu.Lock()
	index := d.global.add(cb)
	d.subMu.Unlock()

	d.logger.Debug("subscriber registered", "topic", core.Wildcard, "index", index)
	return d.unsubscriber(&d.global, index)
}

// Observe registers cb for changes to topic. The wildcard topic "*" is the
// same as ObserveAll.
func (d *Delegate) Observe(topic string, cb Callback) Unsubscribe {
	if topic == core.Wildcard {
		return d.ObserveAll(cb)
	}
	if cb == nil {
		d.logger.Warn("ignoring nil state change callback", "topic", topic)
		return noopUnsubscribe
	}

	d.subMu.Lock()
	list, ok := d.topics[topic]
	if !ok {
		list = &subscriptionList{}
		d.topics[topic] = list
	}
	index := list.add(cb)
	d.subMu.Unlock()

	d.logger.Debug("subscriber registered", "topic", topic, "index", index)
	return d.unsubscriber(list, index)
}

func (d *Delegate) unsubscriber(list *subscriptionList, index int) Unsubscribe {
	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		list.remove(index)
	}
}

// Subscribers returns the number of live subscribers notified when topic
// changes, global ones included
func (d *Delegate) Subscribers(topic string) int {
	d.subMu.RLock()
	defer d.subMu.RUnlock()

	n := len(d.global.live())
	if topic != core.Wildcard {
		n += len(d.topics[topic].live())
	}
	return n
}

// SetState publishes data as the new state of topic and notifies
// subscribers. data is stored in its JSON form: a json.RawMessage as-is,
// anything else through json.Marshal (a []byte becomes a base64 string).
// Redundant writes inside the guard window, unserializable payloads and
// storage failures are logged and dropped.
func (d *Delegate) SetState(topic string, data any) {
	if d.maxDepth > 0 && int(d.depth.Load()) >= d.maxDepth {
		d.logger.Error("dropping state change", "topic", topic, "depth", d.depth.Load(), "err", ErrMaxDepthExceeded)
		d.recorder.RecordDropped(topic)
		return
	}

	bucket, ok := d.commit(topic, data)
	if !ok {
		return
	}
	d.notify(topic, bucket)
}

// commit runs the load/compare/persist step and returns the new bucket
// when subscribers must be notified
func (d *Delegate) commit(topic string, data any) (core.Bucket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.namespace == "" {
		d.logger.Error("cannot set state", "topic", topic, "err", ErrNoNamespace)
		return nil, false
	}

	raw, err := core.Encode(data)
	if err != nil {
		d.logger.Error("cannot set state", "topic", topic, "err", fmt.Errorf("%w: %v", ErrEncodeFailed, err))
		return nil, false
	}

	redundant, err := core.Redundant(d.bucket, topic, raw)
	if err != nil {
		d.logger.Error("cannot set state", "topic", topic, "err", fmt.Errorf("%w: %v", ErrEncodeFailed, err))
		return nil, false
	}

	now := d.clock()
	if d.guard.Check(redundant, d.lastChange[topic], now) == core.Suppress {
		d.logger.Debug("ignoring redundant state change", "topic", topic)
		d.recorder.RecordSuppressed(topic)
		return nil, false
	}

	next := d.bucket.With(topic, raw)
	if err := d.store.Save(d.ctx, d.namespace, next); err != nil {
		d.logger.Error("state bucket write failed", "topic", topic, "namespace", d.namespace, "err", err)
		d.recorder.RecordPersistFailure(topic)
		return nil, false
	}

	d.bucket = next
	d.lastChange[topic] = now
	d.recorder.RecordWrite(topic)
	return next, true
}

// notify invokes global subscribers then topic subscribers, each with its
// own copy of the bucket. A subscriber removed while earlier ones run is
// skipped.
func (d *Delegate) notify(topic string, bucket core.Bucket) {
	d.subMu.RLock()
	subs := d.global.live()
	subs = append(subs, d.topics[topic].live()...)
	d.subMu.RUnlock()

	d.depth.Add(1)
	defer d.depth.Add(-1)

	notified := 0
	for _, sub := range subs {
		d.subMu.RLock()
		live := sub.live
		d.subMu.RUnlock()
		if !live {
			continue
		}
		d.invoke(sub.callback, topic, bucket.Clone())
		notified++
	}
	d.recorder.RecordNotified(topic, notified)
}

func (d *Delegate) invoke(cb Callback, topic string, bucket core.Bucket) {
	defer func() {
		if r := recover(); r != nil {
			d.callbackFailed(topic, fmt.Errorf("%w: panic: %v", ErrCallbackFailed, r))
		}
	}()

	if err := cb(topic, bucket); err != nil {
		d.callbackFailed(topic, fmt.Errorf("%w: %w", ErrCallbackFailed, err))
	}
}

func (d *Delegate) callbackFailed(topic string, err error) {
	d.logger.Error("delegate invocation failed", "topic", topic, "err", err)
	d.recorder.RecordCallbackFailure(topic)
}

// GetState returns the persisted state of topic, or an empty object when
// the topic is absent or the bucket cannot be read
func (d *Delegate) GetState(topic string) json.RawMessage {
	return d.GetStateBucket().Get(topic)
}

// GetStateInto decodes the persisted state of topic into v
func (d *Delegate) GetStateInto(topic string, v any) error {
	return d.GetStateBucket().Decode(topic, v)
}

// GetStateBucket reads the whole persisted bucket of the active namespace.
// A corrupt bucket reads as empty. When storage cannot be reached the last
// bucket this delegate persisted is returned.
func (d *Delegate) GetStateBucket() core.Bucket {
	d.mu.Lock()
	namespace := d.namespace
	cached := d.bucket.Clone()
	d.mu.Unlock()

	if namespace == "" {
		d.logger.Warn("cannot get state bucket", "err", ErrNoNamespace)
		return core.NewBucket()
	}

	bucket, err := d.store.Load(d.ctx, namespace)
	switch {
	case err == nil:
		return bucket
	case errors.Is(err, store.ErrCorruptBucket):
		return core.NewBucket()
	default:
		return cached
	}
}
