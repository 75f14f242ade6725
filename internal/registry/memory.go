package registry

import (
	"context"
	"sort"
	"sync"

	id "mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

// InMemory is the process-local registry. Batches are staged and validated
// before anything is written, so a rejected batch leaves no trace.
type InMemory struct {
	mu     sync.RWMutex
	owners map[id.TokenID]id.Address
	held   map[id.Address][]id.TokenID
}

// NewInMemory creates an empty registry.
func NewInMemory() *InMemory {
	return &InMemory{
		owners: make(map[id.TokenID]id.Address),
		held:   make(map[id.Address][]id.TokenID),
	}
}

// CreateBatch registers every id for owner. If any id is already registered,
// nothing is written and sentinel.ErrDuplicate is returned.
func (r *InMemory) CreateBatch(_ context.Context, owner id.Address, ids []id.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[id.TokenID]struct{}, len(ids))
	for _, tokenID := range ids {
		if _, exists := r.owners[tokenID]; exists {
			return sentinel.ErrDuplicate
		}
		if _, dup := seen[tokenID]; dup {
			return sentinel.ErrDuplicate
		}
		seen[tokenID] = struct{}{}
	}

	for _, tokenID := range ids {
		r.owners[tokenID] = owner
		r.held[owner] = append(r.held[owner], tokenID)
	}
	return nil
}

// OwnerOf returns the holder of a record.
func (r *InMemory) OwnerOf(_ context.Context, tokenID id.TokenID) (id.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[tokenID]
	if !ok {
		return id.Address{}, sentinel.ErrNotFound
	}
	return owner, nil
}

// BalanceOf counts records held by owner.
func (r *InMemory) BalanceOf(_ context.Context, owner id.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.held[owner])), nil
}

// TokensOwnedBy lists owner's record ids in ascending order.
func (r *InMemory) TokensOwnedBy(_ context.Context, owner id.Address) ([]id.TokenID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := append([]id.TokenID{}, r.held[owner]...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens, nil
}

// Count returns the number of registered records.
func (r *InMemory) Count(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.owners)), nil
}
