package events

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mintgate/pkg/domain"
)

func TestLogAppendAssignsSequenceAndMetadata(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	minter := id.MustAddress("0xaabbccddeeff00112233445566778899aabbccdd")

	first, err := log.Append(ctx, NewMint(minter, 3, 1, 3))
	require.NoError(t, err)
	second, err := log.Append(ctx, NewPauseStateChanged(true))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Sequence)
	assert.Equal(t, uint64(2), second.Sequence)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.Timestamp.IsZero())
	assert.Equal(t, CategoryIssuance, first.Category)
	assert.Equal(t, CategoryAdministration, second.Category)
}

func TestLogListPreservesAppendOrder(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	addr := id.MustAddress("0x0000000000000000000000000000000000000001")
	_, _ = log.Append(ctx, NewAddedToWhitelist(addr))
	_, _ = log.Append(ctx, NewWhitelistOnlyToggled(true))
	_, _ = log.Append(ctx, NewRemovedFromWhitelist(addr))

	all, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindAddedToWhitelist, all[0].Kind)
	assert.Equal(t, KindWhitelistOnlyToggled, all[1].Kind)
	assert.Equal(t, KindRemovedFromWhitelist, all[2].Kind)
}

func TestLogListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	for i := 0; i < 5; i++ {
		_, _ = log.Append(ctx, NewPauseStateChanged(i%2 == 0))
	}

	recent, err := log.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(5), recent[0].Sequence)
	assert.Equal(t, uint64(4), recent[1].Sequence)

	all, err := log.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	capped, err := log.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, capped, 5)
}

func TestLogListByAddress(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	alice := id.MustAddress("0x000000000000000000000000000000000000000a")
	bob := id.MustAddress("0x000000000000000000000000000000000000000b")

	_, _ = log.Append(ctx, NewAddedToWhitelist(alice))
	_, _ = log.Append(ctx, NewAddedToWhitelist(bob))
	_, _ = log.Append(ctx, NewMint(alice, 1, 1, 1))

	forAlice, err := log.ListByAddress(ctx, alice.String())
	require.NoError(t, err)
	require.Len(t, forAlice, 2)
	assert.Equal(t, KindAddedToWhitelist, forAlice[0].Kind)
	assert.Equal(t, KindMint, forAlice[1].Kind)
}

func TestLogSinceCursor(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	for i := 0; i < 4; i++ {
		_, _ = log.Append(ctx, NewPauseStateChanged(true))
	}

	t.Run("from the beginning", func(t *testing.T) {
		batch, err := log.Since(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, batch, 4)
		assert.Equal(t, uint64(1), batch[0].Sequence)
	})

	t.Run("after a cursor", func(t *testing.T) {
		batch, err := log.Since(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		assert.Equal(t, uint64(3), batch[0].Sequence)
	})

	t.Run("limited batch", func(t *testing.T) {
		batch, err := log.Since(ctx, 0, 3)
		require.NoError(t, err)
		assert.Len(t, batch, 3)
	})

	t.Run("caught up", func(t *testing.T) {
		batch, err := log.Since(ctx, 4, 0)
		require.NoError(t, err)
		assert.Empty(t, batch)
	})
}

func TestLogConcurrentAppendsKeepDenseSequences(t *testing.T) {
	ctx := context.Background()
	log := NewLog()

	const appenders = 8
	const perAppender = 50

	var wg sync.WaitGroup
	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perAppender; j++ {
				_, _ = log.Append(ctx, NewPauseStateChanged(true))
			}
		}()
	}
	wg.Wait()

	all, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, appenders*perAppender)
	for i, e := range all {
		assert.Equal(t, uint64(i+1), e.Sequence)
	}
}
