//go:build integration

package allowlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"mintgate/internal/allowlist"
	id "mintgate/pkg/domain"
	"mintgate/pkg/testutil/containers"
)

type RedisAllowlistSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *allowlist.RedisStore
}

func TestRedisAllowlistSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisAllowlistSuite))
}

func (s *RedisAllowlistSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = allowlist.NewRedis(s.redis.Client)
}

func (s *RedisAllowlistSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisAllowlistSuite) TestMembershipLifecycle() {
	ctx := context.Background()
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")

	member, err := s.store.Contains(ctx, alice)
	s.Require().NoError(err)
	s.False(member)

	s.Require().NoError(s.store.Add(ctx, alice))

	member, err = s.store.Contains(ctx, alice)
	s.Require().NoError(err)
	s.True(member)

	s.Require().NoError(s.store.Add(ctx, alice))

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	s.Require().NoError(s.store.Remove(ctx, alice))

	member, err = s.store.Contains(ctx, alice)
	s.Require().NoError(err)
	s.False(member)
}

func (s *RedisAllowlistSuite) TestAddManyAndList() {
	ctx := context.Background()
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")
	bob := id.MustAddress("0xb0b0000000000000000000000000000000000002")

	err := s.store.AddMany(ctx, []id.Address{bob, alice, bob})
	s.Require().NoError(err)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	members, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Equal([]id.Address{alice, bob}, members, "set members come back sorted")
}
