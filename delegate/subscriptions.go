package delegate

import "github.com/yourusername/nfw/core"

// Callback receives the changed topic and the whole bucket after the change.
// A returned error is logged; it never reaches the writer.
type Callback func(topic string, bucket core.Bucket) error

// Unsubscribe stops a subscription. Calling it again has no effect.
type Unsubscribe func()

// noopUnsubscribe is handed out when nothing was registered
func noopUnsubscribe() {}

type subscription struct {
	callback Callback
	live     bool
}

// subscriptionList is an append-only arena of subscriptions.
// Indices stay valid for the life of the list: removing a subscription
// marks it dead and its slot is never reused.
type subscriptionList struct {
	entries []*subscription
}

func (l *subscriptionList) add(cb Callback) int {
	l.entries = append(l.entries, &subscription{callback: cb, live: true})
	return len(l.entries) - 1
}

func (l *subscriptionList) remove(index int) {
	if index < 0 || index >= len(l.entries) {
		return
	}
	l.entries[index].live = false
}

// live returns the subscriptions alive right now, in registration order
func (l *subscriptionList) live() []*subscription {
	if l == nil {
		return nil
	}
	out := make([]*subscription, 0, len(l.entries))
	for _, s := range l.entries {
		if s.live {
			out = append(out, s)
		}
	}
	return out
}

func (l *subscriptionList) size() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}
