// Package component provides the lifecycle base every state-publishing
// component embeds.
//
// A concrete component embeds *Base, overrides Initialize to wire its event
// sources and observations, and overrides HandleStateChange to react to the
// topics it observes:
//
//	type Headline struct {
//	    *component.Base
//	}
//
//	func NewHeadline(id string, d *delegate.Delegate) (*Headline, error) {
//	    h := &Headline{}
//	    base, err := component.NewBase(id, d, h)
//	    if err != nil {
//	        return nil, err
//	    }
//	    h.Base = base
//	    return h, nil
//	}
//
//	func (h *Headline) Initialize() {
//	    h.Observe("TextInput")
//	}
//
//	func (h *Headline) HandleStateChange(topic string, bucket core.Bucket) {
//	    // ...
//	}
package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/delegate"
)

// ErrMissingID is returned when a component is constructed without an id
var ErrMissingID = errors.New("cannot instantiate component without id")

// Component is the contract the bootstrap drives
type Component interface {
	// ID returns the topic the component publishes under
	ID() string

	// Initialize runs once after construction
	Initialize()

	// HandleStateChange is invoked when an observed topic changes.
	// bucket holds the state of every topic, not only the changed one.
	HandleStateChange(topic string, bucket core.Bucket)
}

// Base implements Component with no-op hooks and forwards state to a
// delegate under the component's id
type Base struct {
	id       string
	delegate *delegate.Delegate
	self     Component
	logger   *slog.Logger
	once     sync.Once
}

// Ensure Base implements Component interface
var _ Component = (*Base)(nil)

// NewBase creates the base of a component with the given id.
// self is the component that embeds the base; its HandleStateChange receives
// notifications. A nil self makes the base a headless component of its own.
func NewBase(id string, d *delegate.Delegate, self Component) (*Base, error) {
	if d == nil {
		return nil, errors.New("component: delegate cannot be nil")
	}
	if id == "" {
		d.Logger().Error("cannot instantiate component", "err", ErrMissingID)
		return nil, ErrMissingID
	}

	b := &Base{
		id:       id,
		delegate: d,
		self:     self,
		logger:   d.Logger().With("component", id),
	}
	if b.self == nil {
		b.self = b
	}
	return b, nil
}

// ID returns the component id
func (b *Base) ID() string {
	return b.id
}

// Logger returns the component's logger, derived from the delegate's
func (b *Base) Logger() *slog.Logger {
	return b.logger
}

// Delegate returns the delegate the component publishes to
func (b *Base) Delegate() *delegate.Delegate {
	return b.delegate
}

// Initialize does nothing; concrete components override it
func (b *Base) Initialize() {}

// HandleStateChange does nothing; concrete components override it
func (b *Base) HandleStateChange(string, core.Bucket) {}

// SetState announces the component's new state to its observers
func (b *Base) SetState(state any) {
	b.delegate.SetState(b.id, state)
}

// GetState returns the current state of topic
func (b *Base) GetState(topic string) json.RawMessage {
	return b.delegate.GetState(topic)
}

// Observe subscribes the component to target's state changes.
// Observing its own topic is refused: the returned function does nothing.
func (b *Base) Observe(target string) delegate.Unsubscribe {
	b.logger.Info(fmt.Sprintf("%s is observing %s", b.id, target))
	if target == b.id {
		b.logger.Warn("cannot observe self", "target", target)
		return func() {}
	}

	self := b.self
	return b.delegate.Observe(target, func(topic string, bucket core.Bucket) error {
		self.HandleStateChange(topic, bucket)
		return nil
	})
}

// start runs Initialize of the outer component once
func (b *Base) start() {
	b.once.Do(b.self.Initialize)
}

// starter is implemented by components that embed *Base
type starter interface {
	start()
}

// Start initializes c exactly once. Components that do not embed *Base are
// initialized on every call.
func Start(c Component) {
	if s, ok := c.(starter); ok {
		s.start()
		return
	}
	c.Initialize()
}
