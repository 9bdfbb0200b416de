// Package app bootstraps a namespace: it selects the delegate's namespace,
// instantiates the registered components and starts the valid ones.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yourusername/nfw/component"
	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/view"
)

var (
	// ErrDuplicateComponent is returned when a name is registered twice
	ErrDuplicateComponent = errors.New("component already registered")

	// ErrInvalidSurface is returned for view components without a valid surface
	ErrInvalidSurface = errors.New("component has no valid surface")
)

// Factory builds the component registered under id
type Factory func(id string, d *delegate.Delegate) (component.Component, error)

type entry struct {
	name    string
	factory Factory
}

// Registry keeps component factories in registration order
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a factory under name
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return component.ErrMissingID
	}
	if f == nil {
		return fmt.Errorf("component %s: factory cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
		}
	}
	r.entries = append(r.entries, entry{name: name, factory: f})
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry(nil), r.entries...)
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequiredSurfaces lists the auxiliary surfaces a view component
// registered under name must have
func WithRequiredSurfaces(name string, ids ...string) Option {
	return func(c *Controller) {
		c.required[name] = ids
	}
}

// Controller owns the components of one namespace
type Controller struct {
	namespace string
	delegate  *delegate.Delegate
	logger    *slog.Logger
	required  map[string][]string

	components map[string]component.Component
	order      []string
	rejected   map[string]error

	unsubscribe delegate.Unsubscribe
}

// New selects namespace on d and starts every component in r that can be
// built. Components that fail to build or lack a valid surface are logged
// and left out.
func New(namespace string, d *delegate.Delegate, r *Registry, opts ...Option) (*Controller, error) {
	if d == nil {
		return nil, errors.New("app: delegate cannot be nil")
	}
	if r == nil {
		r = NewRegistry()
	}

	c := &Controller{
		namespace:  namespace,
		delegate:   d,
		logger:     slog.Default(),
		required:   make(map[string][]string),
		components: make(map[string]component.Component),
		rejected:   make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := d.SetNamespace(namespace); err != nil {
		return nil, fmt.Errorf("app %s: %w", namespace, err)
	}

	c.unsubscribe = d.ObserveAll(func(topic string, _ core.Bucket) error {
		c.logger.Info(fmt.Sprintf("%s state change", topic))
		return nil
	})

	var started []component.Component
	for _, e := range r.snapshot() {
		comp, err := c.build(e)
		if err != nil {
			c.rejected[e.name] = err
			c.logger.Error(fmt.Sprintf("cannot create component with class %s", e.name), "err", err)
			continue
		}
		c.components[e.name] = comp
		c.order = append(c.order, e.name)
		started = append(started, comp)
		c.logger.Info(fmt.Sprintf("%s component created", e.name))
	}

	for _, comp := range started {
		component.Start(comp)
	}

	c.logger.Info(fmt.Sprintf("%s is ready", namespace))
	return c, nil
}

func (c *Controller) build(e entry) (comp component.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panic: %v", r)
		}
	}()

	comp, err = e.factory(e.name, c.delegate)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, errors.New("factory returned no component")
	}

	if v, ok := comp.(view.Validator); ok && !v.HasValidSurface(c.required[e.name]...) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSurface, e.name)
	}
	return comp, nil
}

// Namespace returns the namespace the controller bootstrapped
func (c *Controller) Namespace() string {
	return c.namespace
}

// Delegate returns the delegate shared by every component
func (c *Controller) Delegate() *delegate.Delegate {
	return c.delegate
}

// Component returns the started component registered under name
func (c *Controller) Component(name string) (component.Component, bool) {
	comp, ok := c.components[name]
	return comp, ok
}

// Components returns the started components in registration order
func (c *Controller) Components() []component.Component {
	out := make([]component.Component, len(c.order))
	for i, name := range c.order {
		out[i] = c.components[name]
	}
	return out
}

// Rejected returns the reason each discarded component was left out
func (c *Controller) Rejected() map[string]error {
	out := make(map[string]error, len(c.rejected))
	for name, err := range c.rejected {
		out[name] = err
	}
	return out
}

// Close stops logging state changes
func (c *Controller) Close() {
	c.unsubscribe()
}
