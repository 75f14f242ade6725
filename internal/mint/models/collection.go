// Package models holds the issuance state aggregate.
package models

import (
	"time"

	"github.com/holiman/uint256"

	dErrors "mintgate/pkg/domain-errors"
)

// Collection is the aggregate root for the issuance configuration and supply
// counter. There is exactly one instance per process, owned by the mint
// service, and every read or mutation happens inside the service's critical
// section.
//
// Invariants:
//   - TotalSupply <= MaxSupply at all times
//   - TotalSupply is monotonically non-decreasing and advances only through
//     ApplyIssuance, only after the admission gate passed
//   - MaxSupply is immutable after construction
//   - Cost and MaxMintPerCall mutate only through Apply* methods, which the
//     service exposes to the owner identity alone
type Collection struct {
	Name           string
	Symbol         string
	Cost           uint256.Int
	MaxSupply      uint64
	MaxMintPerCall uint64
	ActivationTime time.Time
	Paused         bool
	WhitelistOnly  bool
	TotalSupply    uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Snapshot is a consistent copy of the gate-relevant state, taken inside the
// critical section so every admission check sees the same values.
type Snapshot struct {
	Name           string
	Symbol         string
	Cost           uint256.Int
	MaxSupply      uint64
	MaxMintPerCall uint64
	ActivationTime time.Time
	Paused         bool
	WhitelistOnly  bool
	TotalSupply    uint64
}

// NewCollection validates the initialization parameters and builds the
// singleton aggregate in its initial state: unpaused, open admission, zero
// supply.
func NewCollection(name, symbol string, cost *uint256.Int, maxSupply, maxMintPerCall uint64, activationTime time.Time, now time.Time) (*Collection, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "collection name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "collection name must be 128 characters or less")
	}
	if symbol == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "collection symbol cannot be empty")
	}
	if len(symbol) > 16 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "collection symbol must be 16 characters or less")
	}
	if cost == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "collection cost is required")
	}
	if maxSupply == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "max supply must be positive")
	}
	if maxMintPerCall == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "max mint per call must be positive")
	}

	c := &Collection{
		Name:           name,
		Symbol:         symbol,
		MaxSupply:      maxSupply,
		MaxMintPerCall: maxMintPerCall,
		ActivationTime: activationTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	c.Cost.Set(cost)
	return c, nil
}

// Snapshot copies the gate-relevant state.
func (c *Collection) Snapshot() Snapshot {
	return Snapshot{
		Name:           c.Name,
		Symbol:         c.Symbol,
		Cost:           c.Cost,
		MaxSupply:      c.MaxSupply,
		MaxMintPerCall: c.MaxMintPerCall,
		ActivationTime: c.ActivationTime,
		Paused:         c.Paused,
		WhitelistOnly:  c.WhitelistOnly,
		TotalSupply:    c.TotalSupply,
	}
}

// Remaining returns how many records can still be issued.
func (c *Collection) Remaining() uint64 {
	return c.MaxSupply - c.TotalSupply
}

// CanIssue checks the supply invariant for an issuance of quantity records.
// The full admission gate lives in the service; this guard is the aggregate's
// own last line against counter overflow.
func (c *Collection) CanIssue(quantity uint64) error {
	if quantity == 0 {
		return dErrors.New(dErrors.CodeZeroQuantity, "quantity must be positive")
	}
	if quantity > c.Remaining() {
		return dErrors.New(dErrors.CodeExceedsMaxSupply, "issuance would exceed max supply")
	}
	return nil
}

// ApplyIssuance advances the supply counter after an admitted, registered
// issuance. Call CanIssue first; the counter never moves past MaxSupply.
func (c *Collection) ApplyIssuance(quantity uint64, now time.Time) {
	c.TotalSupply += quantity
	c.UpdatedAt = now
}

// ApplySetPaused sets the kill switch and reports the new value.
func (c *Collection) ApplySetPaused(paused bool, now time.Time) bool {
	c.Paused = paused
	c.UpdatedAt = now
	return c.Paused
}

// ApplyToggleWhitelistOnly flips allow-list enforcement and reports the new
// value.
func (c *Collection) ApplyToggleWhitelistOnly(now time.Time) bool {
	c.WhitelistOnly = !c.WhitelistOnly
	c.UpdatedAt = now
	return c.WhitelistOnly
}

// ApplySetCost replaces the per-record price.
func (c *Collection) ApplySetCost(cost *uint256.Int, now time.Time) {
	c.Cost.Set(cost)
	c.UpdatedAt = now
}

// ApplySetMaxMintPerCall replaces the per-request quantity bound.
func (c *Collection) ApplySetMaxMintPerCall(limit uint64, now time.Time) {
	c.MaxMintPerCall = limit
	c.UpdatedAt = now
}
