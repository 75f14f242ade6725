package handler

import (
	"time"

	"mintgate/internal/mint"
	"mintgate/internal/mint/models"
	id "mintgate/pkg/domain"
	"mintgate/pkg/platform/events"
)

// MintResponse is the HTTP response for POST /mint.
type MintResponse struct {
	Caller   string `json:"caller"`
	Quantity uint64 `json:"quantity"`
	FirstID  uint64 `json:"first_id"`
	LastID   uint64 `json:"last_id"`
	Payment  string `json:"payment"`
	Sequence uint64 `json:"sequence"`
}

// FromReceipt converts an issuance receipt to an HTTP response.
func FromReceipt(receipt *mint.Receipt) *MintResponse {
	return &MintResponse{
		Caller:   receipt.Caller.String(),
		Quantity: receipt.Quantity,
		FirstID:  uint64(receipt.FirstID),
		LastID:   uint64(receipt.LastID),
		Payment:  receipt.Payment.Dec(),
		Sequence: receipt.Sequence,
	}
}

// CollectionResponse is the HTTP response for GET /collection.
type CollectionResponse struct {
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	Cost           string    `json:"cost"`
	MaxSupply      uint64    `json:"max_supply"`
	MaxMintPerCall uint64    `json:"max_mint_per_call"`
	ActivationTime time.Time `json:"activation_time"`
	Paused         bool      `json:"paused"`
	WhitelistOnly  bool      `json:"whitelist_only"`
	TotalSupply    uint64    `json:"total_supply"`
	Remaining      uint64    `json:"remaining"`
}

// FromSnapshot converts a collection snapshot to an HTTP response.
func FromSnapshot(snapshot models.Snapshot) *CollectionResponse {
	return &CollectionResponse{
		Name:           snapshot.Name,
		Symbol:         snapshot.Symbol,
		Cost:           snapshot.Cost.Dec(),
		MaxSupply:      snapshot.MaxSupply,
		MaxMintPerCall: snapshot.MaxMintPerCall,
		ActivationTime: snapshot.ActivationTime,
		Paused:         snapshot.Paused,
		WhitelistOnly:  snapshot.WhitelistOnly,
		TotalSupply:    snapshot.TotalSupply,
		Remaining:      snapshot.MaxSupply - snapshot.TotalSupply,
	}
}

// TokenResponse is the HTTP response for GET /tokens/{tokenID}.
type TokenResponse struct {
	TokenID  uint64 `json:"token_id"`
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri"`
}

// AddressResponse is the HTTP response for GET /addresses/{address}.
type AddressResponse struct {
	Address     string   `json:"address"`
	Balance     uint64   `json:"balance"`
	Tokens      []uint64 `json:"tokens"`
	Whitelisted bool     `json:"whitelisted"`
}

// FromAddressState converts the registry and allow-list view of an
// address to an HTTP response.
func FromAddressState(address id.Address, balance uint64, tokens []id.TokenID, whitelisted bool) *AddressResponse {
	ids := make([]uint64, len(tokens))
	for i, tokenID := range tokens {
		ids[i] = uint64(tokenID)
	}
	return &AddressResponse{
		Address:     address.String(),
		Balance:     balance,
		Tokens:      ids,
		Whitelisted: whitelisted,
	}
}

// EventsResponse is the HTTP response for GET /collection/events.
// NextAfter feeds straight back into the ?after cursor.
type EventsResponse struct {
	Events    []events.Event `json:"events"`
	NextAfter uint64         `json:"next_after"`
}

// FromEvents converts a notification page to an HTTP response.
func FromEvents(after uint64, page []events.Event) *EventsResponse {
	nextAfter := after
	if len(page) > 0 {
		nextAfter = page[len(page)-1].Sequence
	}
	return &EventsResponse{
		Events:    page,
		NextAfter: nextAfter,
	}
}
