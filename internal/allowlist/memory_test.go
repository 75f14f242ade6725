package allowlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "mintgate/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *InMemoryStoreSuite) TestAddAndContains() {
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")
	bob := id.MustAddress("0xb0b0000000000000000000000000000000000002")

	s.Require().NoError(s.store.Add(s.ctx, alice))

	ok, err := s.store.Contains(s.ctx, alice)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.Contains(s.ctx, bob)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *InMemoryStoreSuite) TestAddIsIdempotent() {
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")

	s.Require().NoError(s.store.Add(s.ctx, alice))
	s.Require().NoError(s.store.Add(s.ctx, alice))

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *InMemoryStoreSuite) TestAddManyAdmitsDuplicates() {
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")
	bob := id.MustAddress("0xb0b0000000000000000000000000000000000002")

	s.Require().NoError(s.store.AddMany(s.ctx, []id.Address{alice, bob, alice}))

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *InMemoryStoreSuite) TestRemove() {
	alice := id.MustAddress("0xa11ce00000000000000000000000000000000001")

	s.Run("removes existing member", func() {
		s.Require().NoError(s.store.Add(s.ctx, alice))
		s.Require().NoError(s.store.Remove(s.ctx, alice))

		ok, err := s.store.Contains(s.ctx, alice)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("tolerates absent member", func() {
		s.Require().NoError(s.store.Remove(s.ctx, alice))
	})
}

func (s *InMemoryStoreSuite) TestListReturnsAscendingOrder() {
	members := []id.Address{
		id.MustAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
		id.MustAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		id.MustAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	}
	for _, member := range members {
		s.Require().NoError(s.store.Add(s.ctx, member))
	}

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", listed[0].String())
	s.Equal("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", listed[1].String())
	s.Equal("0xcccccccccccccccccccccccccccccccccccccccc", listed[2].String())
}
