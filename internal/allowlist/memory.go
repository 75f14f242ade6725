package allowlist

import (
	"context"
	"sort"
	"sync"

	id "mintgate/pkg/domain"
)

// InMemory is a map-backed allow-list store for tests and
// single-process deployments.
type InMemory struct {
	mu      sync.RWMutex
	members map[id.Address]struct{}
}

// NewInMemory constructs an empty in-memory allow-list store.
func NewInMemory() *InMemory {
	return &InMemory{
		members: make(map[id.Address]struct{}),
	}
}

func (s *InMemory) Add(_ context.Context, address id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[address] = struct{}{}
	return nil
}

func (s *InMemory) AddMany(_ context.Context, addresses []id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, address := range addresses {
		s.members[address] = struct{}{}
	}
	return nil
}

func (s *InMemory) Remove(_ context.Context, address id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, address)
	return nil
}

func (s *InMemory) Contains(_ context.Context, address id.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[address]
	return ok, nil
}

func (s *InMemory) List(_ context.Context) ([]id.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addresses := make([]id.Address, 0, len(s.members))
	for address := range s.members {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].String() < addresses[j].String()
	})
	return addresses, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members), nil
}
