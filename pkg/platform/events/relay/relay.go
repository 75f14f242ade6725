// Package relay streams the notification log into a sink.
//
// The relay polls the log with a sequence cursor instead of subscribing to a
// channel: the engine never blocks on sink backpressure, and a sink outage
// loses nothing because the cursor only advances after a successful append.
package relay

import (
	"context"
	"log/slog"
	"time"

	"mintgate/pkg/platform/events"
)

const (
	defaultInterval  = 250 * time.Millisecond
	defaultBatchSize = 256
)

// Relay drains events from the log into one sink in sequence order.
// Run one Relay per sink; each keeps its own cursor.
type Relay struct {
	log      *events.Log
	sink     events.Sink
	logger   *slog.Logger
	interval time.Duration
	batch    int
	cursor   uint64
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithBatchSize overrides the max events drained per poll.
func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

// New creates a relay from the log into sink, starting at sequence 0.
func New(log *events.Log, sink events.Sink, opts ...Option) *Relay {
	r := &Relay{
		log:      log,
		sink:     sink,
		logger:   slog.Default(),
		interval: defaultInterval,
		batch:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drains the log until ctx is cancelled. A sink failure is logged and
// retried on the next tick without advancing the cursor, so delivery stays
// in order and at-least-once.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "event relay delivery failed",
					"cursor", r.cursor,
					"error", err,
				)
			}
		}
	}
}

// Cursor returns the sequence of the last delivered event.
func (r *Relay) Cursor() uint64 {
	return r.cursor
}

// drain delivers pending events one by one, advancing the cursor after each
// successful append.
func (r *Relay) drain(ctx context.Context) error {
	for {
		pending, err := r.log.Since(ctx, r.cursor, r.batch)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		for _, event := range pending {
			if err := r.sink.Append(ctx, event); err != nil {
				return err
			}
			r.cursor = event.Sequence
		}
	}
}
