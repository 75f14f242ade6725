package allowlist

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	id "mintgate/pkg/domain"
)

const (
	// Redis key holding the allow-list membership set
	allowlistKey = "mintgate:allowlist"
)

// RedisStore is a Redis-backed allow-list store. Membership lives in a
// single set so that multiple instances share one allow-list.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed allow-list store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Add(ctx context.Context, address id.Address) error {
	if err := s.client.SAdd(ctx, allowlistKey, address.String()).Err(); err != nil {
		return fmt.Errorf("add allowlist member: %w", err)
	}
	return nil
}

func (s *RedisStore) AddMany(ctx context.Context, addresses []id.Address) error {
	if len(addresses) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(addresses))
	for _, address := range addresses {
		members = append(members, address.String())
	}
	// MULTI/EXEC so the batch lands as one unit
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, allowlistKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add allowlist members: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, address id.Address) error {
	if err := s.client.SRem(ctx, allowlistKey, address.String()).Err(); err != nil {
		return fmt.Errorf("remove allowlist member: %w", err)
	}
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, address id.Address) (bool, error) {
	ok, err := s.client.SIsMember(ctx, allowlistKey, address.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check allowlist member: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) List(ctx context.Context) ([]id.Address, error) {
	raw, err := s.client.SMembers(ctx, allowlistKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list allowlist members: %w", err)
	}

	addresses := make([]id.Address, 0, len(raw))
	for _, value := range raw {
		address, err := id.ParseAddress(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt allowlist member %q: %w", value, err)
		}
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].String() < addresses[j].String()
	})
	return addresses, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	count, err := s.client.SCard(ctx, allowlistKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count allowlist members: %w", err)
	}
	return int(count), nil
}
