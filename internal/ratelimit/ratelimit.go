// Package ratelimit throttles callers with a sliding window. The mint
// endpoint limits issuance attempts per caller address; the token
// endpoint limits credential attempts per requested address so the
// owner secret cannot be brute-forced.
package ratelimit

import (
	"context"
	"time"
)

// Policy is one endpoint's budget: Limit requests per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy throttles at all. A zero limit
// disables the check entirely.
func (p Policy) Enabled() bool {
	return p.Limit > 0
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Store tracks request counts per key.
type Store interface {
	// Allow records one attempt for key and reports whether it fits
	// within limit requests per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}
