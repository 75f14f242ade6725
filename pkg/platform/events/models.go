// Package events holds the engine's append-only notification log and the
// event model shared by its sinks.
//
// Every state change produces exactly one event, appended inside the same
// critical section as the mutation, so the log order matches the mutation
// order. The in-memory Log is the source of truth; Postgres and Kafka sinks
// are fed by a relay and never gate a state change.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	id "mintgate/pkg/domain"
)

// Kind identifies the state change an event describes.
type Kind string

const (
	KindMint                 Kind = "mint"
	KindWithdraw             Kind = "withdraw"
	KindPauseStateChanged    Kind = "pause_state_changed"
	KindAddedToWhitelist     Kind = "added_to_whitelist"
	KindRemovedFromWhitelist Kind = "removed_from_whitelist"
	KindWhitelistOnlyToggled Kind = "whitelist_only_toggled"
)

// Category classifies events by their primary purpose. This enables different
// retention policies and downstream routing.
type Category string

const (
	// CategoryIssuance covers record creation. Long retention: the mint
	// trail is the ledger of who received which ids.
	CategoryIssuance Category = "issuance"

	// CategoryTreasury covers fund movement out of the engine.
	CategoryTreasury Category = "treasury"

	// CategoryAdministration covers owner changes to gate parameters and
	// allow-list membership.
	CategoryAdministration Category = "administration"
)

var kindCategories = map[Kind]Category{
	KindMint:                 CategoryIssuance,
	KindWithdraw:             CategoryTreasury,
	KindPauseStateChanged:    CategoryAdministration,
	KindAddedToWhitelist:     CategoryAdministration,
	KindRemovedFromWhitelist: CategoryAdministration,
	KindWhitelistOnlyToggled: CategoryAdministration,
}

// Category returns the Category for this event kind.
// Unknown kinds default to CategoryAdministration.
func (k Kind) Category() Category {
	if cat, ok := kindCategories[k]; ok {
		return cat
	}
	return CategoryAdministration
}

// Event is emitted from the engine to capture one state change. Fields are
// flat, serialization-friendly values so stores and sinks can fan out without
// knowing domain types; unused fields stay at their zero value.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Sequence  uint64    `json:"sequence"`
	Kind      Kind      `json:"kind"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	// Address is the identity the event concerns: the minter, the owner
	// receiving a withdrawal, or the allow-list subject. Empty for flag
	// toggles.
	Address string `json:"address,omitempty"`
	// Mint payload.
	Quantity uint64 `json:"quantity,omitempty"`
	FirstID  uint64 `json:"first_id,omitempty"`
	LastID   uint64 `json:"last_id,omitempty"`
	// Withdraw payload: decimal string in the smallest currency unit.
	Amount string `json:"amount,omitempty"`
	// New flag value for pause and whitelist-only toggles.
	Enabled bool `json:"enabled,omitempty"`
	// Correlation ID from the request that caused the change.
	RequestID string `json:"request_id,omitempty"`
}

// NewMint builds the completion notification for a successful issuance.
func NewMint(caller id.Address, quantity uint64, firstID, lastID id.TokenID) Event {
	return Event{
		Kind:     KindMint,
		Address:  caller.String(),
		Quantity: quantity,
		FirstID:  uint64(firstID),
		LastID:   uint64(lastID),
	}
}

// NewWithdraw builds the notification for a completed balance withdrawal.
func NewWithdraw(owner id.Address, amount *uint256.Int) Event {
	return Event{
		Kind:    KindWithdraw,
		Address: owner.String(),
		Amount:  amount.Dec(),
	}
}

// NewPauseStateChanged builds the notification for a pause flag change.
func NewPauseStateChanged(paused bool) Event {
	return Event{Kind: KindPauseStateChanged, Enabled: paused}
}

// NewWhitelistOnlyToggled builds the notification for a whitelist-mode flip.
func NewWhitelistOnlyToggled(enabled bool) Event {
	return Event{Kind: KindWhitelistOnlyToggled, Enabled: enabled}
}

// NewAddedToWhitelist builds the notification for an allow-list insertion.
func NewAddedToWhitelist(addr id.Address) Event {
	return Event{Kind: KindAddedToWhitelist, Address: addr.String()}
}

// NewRemovedFromWhitelist builds the notification for an allow-list removal.
func NewRemovedFromWhitelist(addr id.Address) Event {
	return Event{Kind: KindRemovedFromWhitelist, Address: addr.String()}
}
