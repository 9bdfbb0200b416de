// Package widgets holds the demo's view components. The host feeds user
// input through Type and Click; everything else flows through the delegate.
package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/nfw/app"
	"github.com/yourusername/nfw/component"
	"github.com/yourusername/nfw/core"
	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/view"
)

// Clock stamps clicks and summary lines
var Clock = time.Now

// TextInputState is published by TextInput
type TextInputState struct {
	CurrentValue string `json:"currentValue"`
}

// ClickState is published by buttons
type ClickState struct {
	LastClickTimestamp int64 `json:"lastClickTimestamp"`
}

// ValidatedInputState is published by ValidatedInput
type ValidatedInputState struct {
	MeetsRequirements bool   `json:"meetsRequirements"`
	Value             string `json:"value"`
}

type binder interface {
	component.Component
	bind(*view.Base)
}

// factory builds a widget of type T bound to surfaces
func factory[T any, P interface {
	*T
	binder
}](surfaces view.Surfaces) app.Factory {
	return func(id string, d *delegate.Delegate) (component.Component, error) {
		w := P(new(T))
		base, err := view.NewBase(id, d, surfaces, w)
		if err != nil {
			return nil, err
		}
		w.bind(base)
		return w, nil
	}
}

// TextInput publishes its content on every edit and clears itself when
// Button2 is clicked
type TextInput struct {
	*view.Base
}

func (t *TextInput) bind(b *view.Base) { t.Base = b }

func (t *TextInput) Initialize() {
	t.Observe("Button2")
}

func (t *TextInput) HandleStateChange(topic string, _ core.Bucket) {
	if topic == "Button2" {
		t.SetContent("")
	}
}

// Type replaces the input's content
func (t *TextInput) Type(value string) {
	t.SetContent(value)
	t.SetState(TextInputState{CurrentValue: value})
}

// Button publishes the time of its last click
type Button struct {
	*view.Base
}

func (b *Button) bind(base *view.Base) { b.Base = base }

// Click presses the button
func (b *Button) Click() {
	b.SetState(ClickState{LastClickTimestamp: Clock().UnixMilli()})
}

// Headline appends the buffered input on Button1 and clears on Button2
type Headline struct {
	*view.Base
	buffer string
}

func (h *Headline) bind(b *view.Base) { h.Base = b }

func (h *Headline) Initialize() {
	h.Observe("TextInput")
	h.Observe("Button1")
	h.Observe("Button2")
}

func (h *Headline) HandleStateChange(topic string, bucket core.Bucket) {
	switch topic {
	case "TextInput":
		var state TextInputState
		if err := bucket.Decode("TextInput", &state); err == nil {
			h.buffer = state.CurrentValue
		}
	case "Button1":
		if h.buffer != "" {
			h.SetContent(strings.TrimLeft(h.Content()+" "+h.buffer, " "))
		}
	case "Button2":
		h.buffer = ""
		h.SetContent("")
	}
}

// Summary logs every state change, newest first
type Summary struct {
	*view.Base
}

func (s *Summary) bind(b *view.Base) { s.Base = b }

func (s *Summary) Initialize() {
	s.Observe(core.Wildcard)
}

func (s *Summary) HandleStateChange(topic string, _ core.Bucket) {
	line := fmt.Sprintf("[%d] %s component changed state\n", Clock().UnixMilli(), topic)
	s.SetContent(line + s.Content())
}

// ValidatedInput publishes whether its content reads "hello world"
type ValidatedInput struct {
	*view.Base
}

func (v *ValidatedInput) bind(b *view.Base) { v.Base = b }

// Type replaces the input's content
func (v *ValidatedInput) Type(value string) {
	v.SetContent(value)
	v.SetState(ValidatedInputState{
		MeetsRequirements: strings.ToLower(value) == "hello world",
		Value:             value,
	})
}

// SubmitButton is enabled while ValidatedInput meets its requirements
type SubmitButton struct {
	*view.Base
	enabled bool
}

func (s *SubmitButton) bind(b *view.Base) { s.Base = b }

func (s *SubmitButton) Initialize() {
	s.SetContent("disabled")
	s.Observe("TextInput1")
}

func (s *SubmitButton) HandleStateChange(topic string, bucket core.Bucket) {
	if topic != "TextInput1" {
		return
	}
	var state ValidatedInputState
	if err := bucket.Decode("TextInput1", &state); err != nil {
		return
	}
	s.enabled = state.MeetsRequirements
	if s.enabled {
		s.SetContent("enabled")
	} else {
		s.SetContent("disabled")
	}
}

// Enabled reports whether the button can be pressed
func (s *SubmitButton) Enabled() bool {
	return s.enabled
}

// Click presses the button when it is enabled
func (s *SubmitButton) Click() {
	if !s.enabled {
		return
	}
	s.SetState(ClickState{LastClickTimestamp: Clock().UnixMilli()})
}

// Headlines lists the surface ids of the headline example
var Headlines = []string{"TextInput", "Button1", "Button2", "Headline", "Summary"}

// Validation lists the surface ids of the validation example
var Validation = []string{"TextInput1", "Button1"}

// HeadlineRegistry registers the headline example's widgets
func HeadlineRegistry(surfaces view.Surfaces) *app.Registry {
	r := app.NewRegistry()
	r.MustRegister("TextInput", factory[TextInput](surfaces))
	r.MustRegister("Button1", factory[Button](surfaces))
	r.MustRegister("Button2", factory[Button](surfaces))
	r.MustRegister("Headline", factory[Headline](surfaces))
	r.MustRegister("Summary", factory[Summary](surfaces))
	return r
}

// ValidationRegistry registers the validation example's widgets
func ValidationRegistry(surfaces view.Surfaces) *app.Registry {
	r := app.NewRegistry()
	r.MustRegister("TextInput1", factory[ValidatedInput](surfaces))
	r.MustRegister("Button1", factory[SubmitButton](surfaces))
	return r
}
