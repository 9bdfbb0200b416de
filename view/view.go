// Package view binds components to the presentation surfaces that carry
// their id.
package view

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourusername/nfw/component"
	"github.com/yourusername/nfw/delegate"
)

var (
	// ErrSurfaceNotFound is returned when no surface carries an id
	ErrSurfaceNotFound = errors.New("surface not found")

	// ErrAmbiguousSurface is returned when more than one surface carries an id
	ErrAmbiguousSurface = errors.New("surface is not unique")
)

// Surfaces is the host's set of addressable presentation surfaces
type Surfaces interface {
	// Count returns how many surfaces carry id
	Count(id string) int

	// Read returns the content of the single surface carrying id
	Read(id string) (string, error)

	// Write replaces the content of the single surface carrying id
	Write(id, content string) error
}

// Validator is implemented by components that must be bound to a surface
// before they can run
type Validator interface {
	HasValidSurface(required ...string) bool
}

// ViewComponent marks components bound to a presentation surface
type ViewComponent interface {
	component.Component
	Validator
	IsViewComponent() bool
}

// Base is the embeddable base of view components
type Base struct {
	*component.Base
	surfaces Surfaces
	logger   *slog.Logger
}

// Ensure Base implements ViewComponent interface
var _ ViewComponent = (*Base)(nil)

// NewBase creates a view component base bound to surfaces.
// self is the outer component, as for component.NewBase.
func NewBase(id string, d *delegate.Delegate, surfaces Surfaces, self component.Component) (*Base, error) {
	if surfaces == nil {
		return nil, fmt.Errorf("view %s: surfaces cannot be nil", id)
	}

	base, err := component.NewBase(id, d, self)
	if err != nil {
		return nil, err
	}

	return &Base{
		Base:     base,
		surfaces: surfaces,
		logger:   base.Logger(),
	}, nil
}

// IsViewComponent reports true for every view component
func (b *Base) IsViewComponent() bool {
	return true
}

// Surfaces returns the surfaces the component is bound to
func (b *Base) Surfaces() Surfaces {
	return b.surfaces
}

// HasValidSurface reports whether exactly one surface carries the
// component's id and exactly one carries each of the required ids
func (b *Base) HasValidSurface(required ...string) bool {
	ids := append([]string{b.ID()}, required...)
	for _, id := range ids {
		if n := b.surfaces.Count(id); n != 1 {
			b.logger.Warn("component has no valid surface", "surface", id, "count", n)
			return false
		}
	}
	return true
}

// Content returns the content of the component's surface, or "" when it
// cannot be read
func (b *Base) Content() string {
	content, err := b.surfaces.Read(b.ID())
	if err != nil {
		b.logger.Error("cannot read surface", "err", err)
		return ""
	}
	return content
}

// SetContent replaces the content of the component's surface
func (b *Base) SetContent(content string) {
	if err := b.surfaces.Write(b.ID(), content); err != nil {
		b.logger.Error("cannot write surface", "err", err)
	}
}

// ContentOf returns the content of another surface, or "" when it cannot be
// read
func (b *Base) ContentOf(id string) string {
	content, err := b.surfaces.Read(id)
	if err != nil {
		b.logger.Error("cannot read surface", "surface", id, "err", err)
		return ""
	}
	return content
}

// SetContentOf replaces the content of another surface
func (b *Base) SetContentOf(id, content string) {
	if err := b.surfaces.Write(id, content); err != nil {
		b.logger.Error("cannot write surface", "surface", id, "err", err)
	}
}
