// Package registry implements the ownership ledger the engine registers
// issued records with.
//
// The engine treats the registry as a collaborator: it asks for batch
// registration during an issuance and for ownership lookups on the read
// surface. Implementations must make CreateBatch atomic, because issuance
// rollback semantics depend on it: a batch that fails leaves no records
// behind.
package registry

import (
	"context"

	id "mintgate/pkg/domain"
)

// Registry is the ownership ledger. Implementations return
// sentinel.ErrDuplicate from CreateBatch when any id is already registered
// and sentinel.ErrNotFound from OwnerOf for unregistered ids.
type Registry interface {
	// CreateBatch registers every id for owner, all-or-nothing.
	CreateBatch(ctx context.Context, owner id.Address, ids []id.TokenID) error

	// OwnerOf returns the identity holding a record.
	OwnerOf(ctx context.Context, tokenID id.TokenID) (id.Address, error)

	// BalanceOf counts records held by owner.
	BalanceOf(ctx context.Context, owner id.Address) (uint64, error)

	// TokensOwnedBy lists owner's record ids in ascending order. The result
	// is a snapshot taken at call time.
	TokensOwnedBy(ctx context.Context, owner id.Address) ([]id.TokenID, error)

	// Count returns the total number of registered records.
	Count(ctx context.Context) (uint64, error)
}
