package core

import "time"

// Guard collapses bursts of identical writes to one topic.
// A content-identical write is only announced again once Window has
// elapsed since the topic last changed.
type Guard struct {
	Window time.Duration
}

// NewGuard creates a guard with the given window.
// A non-positive window falls back to DefaultGuardWindow.
func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultGuardWindow
	}
	return &Guard{Window: window}
}

// Check decides whether a write should go through.
// last is the moment the topic was last persisted, zero if never.
func (g *Guard) Check(redundant bool, last, now time.Time) Decision {
	if !redundant {
		return Accept
	}

	if last.IsZero() {
		last = now.Add(-NeverChangedOffset)
	}

	if now.Sub(last) < g.Window {
		return Suppress
	}
	return Accept
}
