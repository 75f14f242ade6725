package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintgate/pkg/platform/events"
)

// captureSink records delivered events and can be told to fail.
type captureSink struct {
	mu       sync.Mutex
	received []events.Event
	failNext int
}

func (s *captureSink) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext > 0 {
		s.failNext--
		return errors.New("sink unavailable")
	}
	s.received = append(s.received, event)
	return nil
}

func (s *captureSink) sequences() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seqs := make([]uint64, len(s.received))
	for i, e := range s.received {
		seqs[i] = e.Sequence
	}
	return seqs
}

func TestRelayDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	log := events.NewLog()
	sink := &captureSink{}
	r := New(log, sink)

	for i := 0; i < 5; i++ {
		_, _ = log.Append(ctx, events.NewPauseStateChanged(true))
	}

	require.NoError(t, r.drain(ctx))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, sink.sequences())
	assert.Equal(t, uint64(5), r.Cursor())
}

func TestRelayRetainsCursorOnSinkFailure(t *testing.T) {
	ctx := context.Background()
	log := events.NewLog()
	sink := &captureSink{failNext: 1}
	r := New(log, sink)

	_, _ = log.Append(ctx, events.NewPauseStateChanged(true))
	_, _ = log.Append(ctx, events.NewPauseStateChanged(false))

	require.Error(t, r.drain(ctx))
	assert.Equal(t, uint64(0), r.Cursor())

	// Next drain replays from the start; nothing is skipped.
	require.NoError(t, r.drain(ctx))
	assert.Equal(t, []uint64{1, 2}, sink.sequences())
	assert.Equal(t, uint64(2), r.Cursor())
}

func TestRelayDrainsInBatches(t *testing.T) {
	ctx := context.Background()
	log := events.NewLog()
	sink := &captureSink{}
	r := New(log, sink, WithBatchSize(2))

	for i := 0; i < 5; i++ {
		_, _ = log.Append(ctx, events.NewPauseStateChanged(true))
	}

	require.NoError(t, r.drain(ctx))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, sink.sequences())
}

func TestRelayRunStopsOnContextCancel(t *testing.T) {
	log := events.NewLog()
	sink := &captureSink{}
	r := New(log, sink, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	_, _ = log.Append(ctx, events.NewPauseStateChanged(true))

	assert.Eventually(t, func() bool {
		return len(sink.sequences()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
