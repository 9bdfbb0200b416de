package nfw

import (
	"io"
	"log/slog"
	"testing"

	"github.com/yourusername/nfw/delegate"
)

func TestNewMemoryDelegate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d, err := NewMemoryDelegate("myapp", delegate.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	d.Observe(Wildcard, func(topic string, _ Bucket) error {
		got = append(got, topic)
		return nil
	})
	d.SetState("A", map[string]int{"v": 1})

	if len(got) != 1 || got[0] != "A" {
		t.Errorf("notified = %v, want [A]", got)
	}
	if d.Namespace() != "myapp" {
		t.Errorf("Namespace = %s, want myapp", d.Namespace())
	}
}

func TestNewMemoryDelegate_EmptyNamespace(t *testing.T) {
	if _, err := NewMemoryDelegate(""); err == nil {
		t.Error("expected error for empty namespace")
	}
}
