// Package allowlist stores the set of addresses cleared to mint while
// the collection is in whitelist-only mode.
package allowlist

import (
	"context"

	id "mintgate/pkg/domain"
)

// Store is the persistence contract for allow-list membership.
//
// Implementations must treat Add as idempotent: adding an address that
// is already present succeeds without error. Remove of an absent
// address also succeeds; membership simply ends up false either way.
type Store interface {
	// Add marks the address as allow-listed.
	Add(ctx context.Context, address id.Address) error

	// AddMany marks every address as allow-listed in one step. Either
	// all of them become members or none do; duplicates in the input
	// are admitted like any other entry.
	AddMany(ctx context.Context, addresses []id.Address) error

	// Remove clears the address's allow-list membership.
	Remove(ctx context.Context, address id.Address) error

	// Contains reports whether the address is currently allow-listed.
	Contains(ctx context.Context, address id.Address) (bool, error)

	// List returns every allow-listed address in ascending order.
	List(ctx context.Context) ([]id.Address, error)

	// Count returns the number of allow-listed addresses.
	Count(ctx context.Context) (int, error)
}
