package core

import "time"

// Topic names a component's published state channel
type Topic = string

// Wildcard is the topic sentinel that subscribes to every topic
const Wildcard Topic = "*"

const (
	// DefaultGuardWindow is the minimum gap between two identical writes
	// to the same topic for the second one to be announced again
	DefaultGuardWindow = 20 * time.Millisecond

	// NeverChangedOffset is how far in the past a topic that was never
	// written is assumed to have last changed
	NeverChangedOffset = 1 * time.Second
)

// Decision is the outcome of a guard check
type Decision int

const (
	Accept   Decision = iota // write is persisted and announced
	Suppress                 // write is dropped entirely
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Suppress:
		return "suppress"
	default:
		return "unknown"
	}
}
