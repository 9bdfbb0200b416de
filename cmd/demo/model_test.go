package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/nfw/app"
	"github.com/yourusername/nfw/cmd/demo/widgets"
	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/store"
	"github.com/yourusername/nfw/view"
)

func newTestModel(t *testing.T) (model, *view.MemorySurfaces) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bs := store.NewBucketStore(store.NewMemoryStore(), store.WithLogger(logger))
	d, err := delegate.New(bs, delegate.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	surfaces := view.NewMemorySurfaces(widgets.Headlines...)
	c, err := app.New("demo", d, widgets.HeadlineRegistry(surfaces), app.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	return newModel(c, surfaces, widgets.Headlines), surfaces
}

func send(m model, msgs ...tea.KeyMsg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Focusable(t *testing.T) {
	m, _ := newTestModel(t)

	want := []string{"TextInput", "Button1", "Button2"}
	if strings.Join(m.focusable, ",") != strings.Join(want, ",") {
		t.Errorf("focusable = %v, want %v", m.focusable, want)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focused() != "Button2" {
		t.Errorf("focused = %s, want Button2", m.focused())
	}
}

func TestModel_TypeAndClick(t *testing.T) {
	m, surfaces := newTestModel(t)

	m = send(m,
		runes("hex"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("y"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	input, _ := surfaces.Read("TextInput")
	if input != "hey" {
		t.Errorf("TextInput = %q, want hey", input)
	}
	headline, _ := surfaces.Read("Headline")
	if headline != "hey" {
		t.Errorf("Headline = %q, want hey", headline)
	}

	out := m.View()
	if !strings.Contains(out, "nfw · demo") || !strings.Contains(out, "hey") {
		t.Errorf("view is missing content:\n%s", out)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
