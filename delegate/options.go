package delegate

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Option is a functional option for configuring a Delegate.
type Option func(*Delegate) error

// WithLogger sets the structured logger.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Delegate) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
		}
		d.logger = logger
		return nil
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(d *Delegate) error {
		if clock == nil {
			return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
		}
		d.clock = clock
		return nil
	}
}

// WithGuardWindow sets how long an identical write to the same topic is
// suppressed after the last change.
// Default: 20ms
func WithGuardWindow(window time.Duration) Option {
	return func(d *Delegate) error {
		if window <= 0 {
			return fmt.Errorf("%w: guard window must be positive", ErrInvalidConfig)
		}
		d.guard.Window = window
		return nil
	}
}

// WithMaxDepth limits how deeply SetState calls made from inside
// subscriber callbacks may nest. 0 disables the limit.
// The count covers every notification in flight on the delegate, whatever
// goroutine runs it, so with several publishing goroutines a top-level
// write can be dropped while others are still notifying. Raise or disable
// the limit when publishing concurrently.
// Default: 64
func WithMaxDepth(depth int) Option {
	return func(d *Delegate) error {
		if depth < 0 {
			return fmt.Errorf("%w: max depth cannot be negative", ErrInvalidConfig)
		}
		d.maxDepth = depth
		return nil
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(d *Delegate) error {
		if recorder == nil {
			return fmt.Errorf("%w: recorder cannot be nil", ErrInvalidConfig)
		}
		d.recorder = recorder
		return nil
	}
}

// WithContext sets the context passed to every storage call.
func WithContext(ctx context.Context) Option {
	return func(d *Delegate) error {
		if ctx == nil {
			return fmt.Errorf("%w: context cannot be nil", ErrInvalidConfig)
		}
		d.ctx = ctx
		return nil
	}
}
