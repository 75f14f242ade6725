package handler

import (
	"strings"

	"github.com/holiman/uint256"

	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// SetCostRequest is the HTTP request body for PUT /admin/collection/cost.
type SetCostRequest struct {
	Cost string `json:"cost"`

	// Parsed values (populated by Validate)
	parsedCost *uint256.Int
}

// Validate parses the cost amount. Implements the Validatable interface
// for httputil.DecodeAndPrepare.
func (r *SetCostRequest) Validate() error {
	r.Cost = strings.TrimSpace(r.Cost)
	if r.Cost == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cost is required")
	}

	cost, err := uint256.FromDecimal(r.Cost)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "cost must be a base-10 unsigned integer")
	}
	r.parsedCost = cost

	return nil
}

// ParsedCost returns the validated cost.
func (r *SetCostRequest) ParsedCost() *uint256.Int {
	return r.parsedCost
}

// SetMaxMintPerCallRequest is the HTTP request body for
// PUT /admin/collection/max-mint-per-call. Zero is accepted and blocks
// every positive quantity at the per-call gate.
type SetMaxMintPerCallRequest struct {
	MaxMintPerCall uint64 `json:"max_mint_per_call"`
}

func (r *SetMaxMintPerCallRequest) Validate() error {
	return nil
}

// SetMetadataRequest is the HTTP request body for
// PUT /admin/collection/metadata. Nil fields are left unchanged.
type SetMetadataRequest struct {
	BaseLocation *string `json:"base_location"`
	Extension    *string `json:"extension"`
}

func (r *SetMetadataRequest) Validate() error {
	if r.BaseLocation == nil && r.Extension == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "base_location or extension is required")
	}
	return nil
}

// AllowlistEntryRequest is the HTTP request body for POST and DELETE
// /admin/allowlist.
type AllowlistEntryRequest struct {
	Address string `json:"address"`

	// Parsed values (populated by Validate)
	parsedAddress id.Address
}

func (r *AllowlistEntryRequest) Validate() error {
	address, err := id.ParseAddress(strings.TrimSpace(r.Address))
	if err != nil {
		return err
	}
	r.parsedAddress = address
	return nil
}

// ParsedAddress returns the validated address.
func (r *AllowlistEntryRequest) ParsedAddress() id.Address {
	return r.parsedAddress
}

// AllowlistBatchRequest is the HTTP request body for POST
// /admin/allowlist/batch. Duplicates are admitted; order is preserved
// for notification emission.
type AllowlistBatchRequest struct {
	Addresses []string `json:"addresses"`

	// Parsed values (populated by Validate)
	parsedAddresses []id.Address
}

const maxBatchSize = 1000

func (r *AllowlistBatchRequest) Validate() error {
	if len(r.Addresses) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "addresses are required")
	}
	if len(r.Addresses) > maxBatchSize {
		return dErrors.New(dErrors.CodeInvalidInput, "batch exceeds 1000 addresses")
	}

	parsed := make([]id.Address, 0, len(r.Addresses))
	for _, raw := range r.Addresses {
		address, err := id.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		parsed = append(parsed, address)
	}
	r.parsedAddresses = parsed

	return nil
}

// ParsedAddresses returns the validated batch in input order.
func (r *AllowlistBatchRequest) ParsedAddresses() []id.Address {
	return r.parsedAddresses
}
