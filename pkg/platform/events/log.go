package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sink receives events in log order. Implementations must tolerate replays:
// the relay may deliver an event again after a partial failure.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Log is the append-only notification log. It is the source of truth for
// emitted events: Append assigns the global sequence number and never fails,
// so emission inside a critical section cannot stall or abort a state change.
//
// Sequence numbers are 1-based and dense. Queries return copies; callers may
// not mutate the log through returned slices.
type Log struct {
	mu     sync.RWMutex
	events []Event
}

// NewLog creates an empty notification log.
func NewLog() *Log {
	return &Log{}
}

// Append records an event, filling in ID, Sequence, Category, and Timestamp
// when unset. It returns the enriched event.
func (l *Log) Append(_ context.Context, event Event) (Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = event.Kind.Category()
	}
	event.Sequence = uint64(len(l.events)) + 1
	l.events = append(l.events, event)
	return event, nil
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// List returns all events in sequence order.
func (l *Log) List(_ context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event{}, l.events...), nil
}

// ListRecent returns the most recent events, newest first, at most limit.
func (l *Log) ListRecent(_ context.Context, limit int) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.events) {
		limit = len(l.events)
	}
	recent := make([]Event, 0, limit)
	for i := len(l.events) - 1; i >= len(l.events)-limit; i-- {
		recent = append(recent, l.events[i])
	}
	return recent, nil
}

// ListByAddress returns events concerning the given canonical address, in
// sequence order.
func (l *Log) ListByAddress(_ context.Context, address string) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var matched []Event
	for _, e := range l.events {
		if e.Address == address {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Since returns up to limit events with Sequence > afterSeq, in sequence
// order. A limit <= 0 means no limit. Relays use this as their cursor read.
func (l *Log) Since(_ context.Context, afterSeq uint64, limit int) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if afterSeq >= uint64(len(l.events)) {
		return nil, nil
	}
	pending := l.events[afterSeq:]
	if limit > 0 && limit < len(pending) {
		pending = pending[:limit]
	}
	return append([]Event{}, pending...), nil
}
