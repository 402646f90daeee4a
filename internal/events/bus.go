// Package events is a small publish/subscribe registry over a fixed set of
// event names. Listeners run synchronously on the publishing goroutine, in
// the order they subscribed.
package events

import (
	"fmt"
	"sync"
)

// Event names a channel on the bus.
type Event string

const (
	ShowOpenIssues   Event = "show-open-issues"
	HideOpenIssues   Event = "hide-open-issues"
	ShowClosedIssues Event = "show-closed-issues"
	HideClosedIssues Event = "hide-closed-issues"
	ShowPullRequests Event = "show-pull-requests"
	HidePullRequests Event = "hide-pull-requests"
)

// Vocabulary lists every event the bus accepts.
var Vocabulary = []Event{
	ShowOpenIssues,
	HideOpenIssues,
	ShowClosedIssues,
	HideClosedIssues,
	ShowPullRequests,
	HidePullRequests,
}

// Listener receives the arguments passed to Publish.
type Listener func(args ...any)

// UnknownEventError is returned when an event name is not in the vocabulary.
type UnknownEventError struct {
	Event Event
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("%s is not a valid event", e.Event)
}

// Bus is a publish/subscribe registry. The zero value is not usable; call New.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Event][]Listener
}

// New returns a bus that accepts the events in Vocabulary.
func New() *Bus {
	b := &Bus{listeners: make(map[Event][]Listener, len(Vocabulary))}
	for _, ev := range Vocabulary {
		b.listeners[ev] = nil
	}
	return b
}

// Subscribe registers l for ev. There is no unsubscribe; listeners live as
// long as the bus.
func (b *Bus) Subscribe(ev Event, l Listener) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls, ok := b.listeners[ev]
	if !ok {
		return &UnknownEventError{Event: ev}
	}
	b.listeners[ev] = append(ls, l)
	return nil
}

// Publish calls every listener registered for ev with args.
func (b *Bus) Publish(ev Event, args ...any) error {
	b.mu.RLock()
	ls, ok := b.listeners[ev]
	// copy so a listener may subscribe without deadlocking
	ls = append([]Listener(nil), ls...)
	b.mu.RUnlock()
	if !ok {
		return &UnknownEventError{Event: ev}
	}
	for _, l := range ls {
		l(args...)
	}
	return nil
}
