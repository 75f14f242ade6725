package handler

import (
	"mintgate/internal/mint"
	id "mintgate/pkg/domain"
)

// PauseResponse reports the pause state now in force.
type PauseResponse struct {
	Paused bool `json:"paused"`
}

// WhitelistOnlyResponse reports the admission mode now in force.
type WhitelistOnlyResponse struct {
	WhitelistOnly bool `json:"whitelist_only"`
}

// AllowlistResponse is the HTTP response for GET /admin/allowlist.
type AllowlistResponse struct {
	Addresses []string `json:"addresses"`
	Count     int      `json:"count"`
}

// FromAllowlistMembers converts the allow-list membership to an HTTP response.
func FromAllowlistMembers(members []id.Address) *AllowlistResponse {
	addresses := make([]string, len(members))
	for i, member := range members {
		addresses[i] = member.String()
	}
	return &AllowlistResponse{
		Addresses: addresses,
		Count:     len(addresses),
	}
}

// TreasuryResponse is the HTTP response for GET /admin/treasury.
type TreasuryResponse struct {
	Balance        string `json:"balance"`
	TotalReceived  string `json:"total_received"`
	TotalWithdrawn string `json:"total_withdrawn"`
}

// FromTreasuryStats converts treasury counters to an HTTP response.
func FromTreasuryStats(stats mint.TreasuryStats) *TreasuryResponse {
	return &TreasuryResponse{
		Balance:        stats.Balance.Dec(),
		TotalReceived:  stats.TotalReceived.Dec(),
		TotalWithdrawn: stats.TotalWithdrawn.Dec(),
	}
}

// WithdrawResponse is the HTTP response for POST /admin/treasury/withdraw.
type WithdrawResponse struct {
	Amount string `json:"amount"`
	To     string `json:"to"`
}
