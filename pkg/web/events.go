package web

import (
	"context"
	"sync"

	"github.com/teslashibe/go-motion/pkg/control"
)

// DefaultEventLogSize is the number of events kept in memory.
const DefaultEventLogSize = 500

// EventLog is a bounded in-memory EventStore.
type EventLog struct {
	mu     sync.RWMutex
	size   int
	events []control.Event
}

// NewEventLog keeps the latest size events.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultEventLogSize
	}
	return &EventLog{
		size:   size,
		events: make([]control.Event, 0, size),
	}
}

// Add appends ev, evicting the oldest event when full.
func (l *EventLog) Add(ev control.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	if len(l.events) > l.size {
		l.events = l.events[1:]
	}
}

// Recent implements EventStore.
func (l *EventLog) Recent(_ context.Context, n int) ([]control.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.events) {
		n = len(l.events)
	}
	out := make([]control.Event, n)
	copy(out, l.events[len(l.events)-n:])
	return out, nil
}
