package config

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, time.Hour, cfg.Server.TokenTTL)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", cfg.Server.OwnerAddress)
	assert.Equal(t, "Mint Gate", cfg.Collection.Name)
	assert.True(t, cfg.Collection.Cost.IsZero())
	assert.Equal(t, uint64(10_000), cfg.Collection.MaxSupply)
	assert.Equal(t, uint64(5), cfg.Collection.MaxMintPerCall)
	assert.True(t, cfg.Collection.ActivationTime.IsZero(), "unset activation means already active")
	assert.Equal(t, ".json", cfg.Collection.MetadataExtension)
	assert.Equal(t, 60, cfg.RateLimit.MintPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.TokenPerMinute)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MINTGATE_ADDR", ":9090")
	t.Setenv("MINTGATE_COST", "75000000000000000")
	t.Setenv("MINTGATE_MAX_SUPPLY", "500")
	t.Setenv("MINTGATE_MAX_MINT_PER_CALL", "3")
	t.Setenv("MINTGATE_ACTIVATION_TIME", "2026-09-01T00:00:00Z")
	t.Setenv("MINTGATE_BASE_METADATA_LOCATION", "ipfs://QmGatePass/")
	t.Setenv("MINTGATE_MINT_RATE_LIMIT", "0")
	t.Setenv("MINTGATE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MINTGATE_REDIS_POOL_SIZE", "25")
	t.Setenv("MINTGATE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092, broker-1:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, uint256.MustFromDecimal("75000000000000000"), cfg.Collection.Cost)
	assert.Equal(t, uint64(500), cfg.Collection.MaxSupply)
	assert.Equal(t, uint64(3), cfg.Collection.MaxMintPerCall)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), cfg.Collection.ActivationTime.UTC())
	assert.Equal(t, "ipfs://QmGatePass/", cfg.Collection.BaseMetadataLocation)
	assert.Equal(t, 0, cfg.RateLimit.MintPerMinute, "zero disables the throttle")
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers, "broker list is trimmed and deduplicated")
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("cost", func(t *testing.T) {
		t.Setenv("MINTGATE_COST", "not-a-number")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("activation time", func(t *testing.T) {
		t.Setenv("MINTGATE_ACTIVATION_TIME", "next tuesday")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("max supply", func(t *testing.T) {
		t.Setenv("MINTGATE_MAX_SUPPLY", "-4")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
