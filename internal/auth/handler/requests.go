package handler

import (
	"strings"

	"mintgate/internal/auth"
	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// TokenRequest is the payload for POST /auth/token. OwnerSecret is only
// consulted when an owner token is requested.
type TokenRequest struct {
	Address     string `json:"address"`
	Role        string `json:"role"`
	OwnerSecret string `json:"owner_secret,omitempty"`

	parsedAddress id.Address
}

// Validate parses the address and defaults the role to minter. Role
// admissibility is the issuer's call, not the transport's.
func (r *TokenRequest) Validate() error {
	r.Address = strings.TrimSpace(r.Address)
	r.Role = strings.TrimSpace(r.Role)
	if r.Role == "" {
		r.Role = auth.RoleMinter
	}

	parsed, err := id.ParseAddress(r.Address)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid address")
	}
	r.parsedAddress = parsed
	return nil
}

// ParsedAddress returns the validated address.
func (r *TokenRequest) ParsedAddress() id.Address {
	return r.parsedAddress
}
