package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store with a sliding window per key. The
// window slides continuously, so bursts cannot hide at interval
// boundaries. State is process-local; each instance enforces its own
// budget.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

type slidingWindow struct {
	timestamps []time.Time
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		windows: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

// Allow records one attempt and reports whether it fits in the window.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sw := s.windows[key]
	if sw == nil {
		sw = &slidingWindow{}
		s.windows[key] = sw
	}
	sw.expire(now, window)

	if len(sw.timestamps) >= limit {
		resetAt := sw.timestamps[0].Add(window)
		retryAfter := int(resetAt.Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return &Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}, nil
	}

	sw.timestamps = append(sw.timestamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(sw.timestamps),
		ResetAt:   sw.timestamps[0].Add(window),
	}, nil
}

// Reset clears the counter for a key.
func (s *InMemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// expire drops timestamps that slid out of the window.
func (sw *slidingWindow) expire(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}
