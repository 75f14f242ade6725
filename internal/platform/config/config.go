// Package config reads process configuration from the environment so main
// stays lean. Every knob has a development default; production deployments
// override them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"

	strs "mintgate/pkg/platform/strings"
)

// Config is the full configuration for the mintgate server.
type Config struct {
	Server     Server
	Collection Collection
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Kafka      KafkaConfig
}

// Server captures HTTP server and authentication configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	TokenTTL      time.Duration

	// OwnerAddress identifies the single administration identity. Owner
	// tokens are only issued to callers presenting this address together
	// with the owner secret.
	OwnerAddress string

	// OwnerSecretHash is the bcrypt hash the token endpoint verifies owner
	// secrets against. When empty, OwnerSecret (plaintext, dev only) is
	// hashed at startup instead.
	OwnerSecretHash string
	OwnerSecret     string
}

// Collection carries the issuance parameters fixed at startup.
type Collection struct {
	Name                 string
	Symbol               string
	Cost                 *uint256.Int
	MaxSupply            uint64
	MaxMintPerCall       uint64
	ActivationTime       time.Time
	BaseMetadataLocation string
	MetadataExtension    string
}

// RateLimitConfig caps request rates per address. A limit of zero
// disables the corresponding throttle.
type RateLimitConfig struct {
	// MintPerMinute caps POST /mint attempts per authenticated caller.
	MintPerMinute int

	// TokenPerMinute caps POST /auth/token attempts per requested
	// address, which keeps the owner secret out of brute-force reach.
	TokenPerMinute int
}

// RedisConfig configures the optional Redis-backed allow-list store.
// An empty URL disables Redis and the server falls back to the next
// configured backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres-backed registry,
// allow-list, and notification archive. An empty URL keeps everything
// in memory.
type PostgresConfig struct {
	URL string
}

// KafkaConfig configures the optional notification relay to Kafka.
// No brokers means the relay is not started.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds the configuration from MINTGATE_* environment variables.
func FromEnv() (Config, error) {
	cost, err := parseCost(envString("MINTGATE_COST", "0"))
	if err != nil {
		return Config{}, err
	}

	activation, err := parseActivation(os.Getenv("MINTGATE_ACTIVATION_TIME"))
	if err != nil {
		return Config{}, err
	}

	maxSupply, err := envUint64("MINTGATE_MAX_SUPPLY", 10_000)
	if err != nil {
		return Config{}, err
	}
	maxMintPerCall, err := envUint64("MINTGATE_MAX_MINT_PER_CALL", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: Server{
			Addr:            envString("MINTGATE_ADDR", ":8080"),
			LogLevel:        envString("MINTGATE_LOG_LEVEL", "info"),
			JWTSigningKey:   envString("MINTGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TokenTTL:        envDuration("MINTGATE_TOKEN_TTL", time.Hour),
			OwnerAddress:    envString("MINTGATE_OWNER_ADDRESS", "0x0000000000000000000000000000000000000001"),
			OwnerSecretHash: os.Getenv("MINTGATE_OWNER_SECRET_HASH"),
			OwnerSecret:     os.Getenv("MINTGATE_OWNER_SECRET"),
		},
		Collection: Collection{
			Name:                 envString("MINTGATE_COLLECTION_NAME", "Mint Gate"),
			Symbol:               envString("MINTGATE_COLLECTION_SYMBOL", "GATE"),
			Cost:                 cost,
			MaxSupply:            maxSupply,
			MaxMintPerCall:       maxMintPerCall,
			ActivationTime:       activation,
			BaseMetadataLocation: envString("MINTGATE_BASE_METADATA_LOCATION", ""),
			MetadataExtension:    envString("MINTGATE_METADATA_EXTENSION", ".json"),
		},
		RateLimit: RateLimitConfig{
			MintPerMinute:  envInt("MINTGATE_MINT_RATE_LIMIT", 60),
			TokenPerMinute: envInt("MINTGATE_TOKEN_RATE_LIMIT", 10),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("MINTGATE_REDIS_URL"),
			PoolSize:     envInt("MINTGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("MINTGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("MINTGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("MINTGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("MINTGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("MINTGATE_POSTGRES_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("MINTGATE_KAFKA_BROKERS")),
			Topic:   envString("MINTGATE_KAFKA_TOPIC", "mintgate.events"),
		},
	}

	return cfg, nil
}

func parseCost(raw string) (*uint256.Int, error) {
	cost, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse MINTGATE_COST %q: %w", raw, err)
	}
	return cost, nil
}

// parseActivation treats an unset activation time as "already active".
func parseActivation(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	activation, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse MINTGATE_ACTIVATION_TIME %q: %w", raw, err)
	}
	return activation, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envUint64(key string, fallback uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, err)
	}
	return value, nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strs.DedupeAndTrim(strings.Split(raw, ","))
}
