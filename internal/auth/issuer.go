package auth

import (
	"time"

	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// Issuer turns credential checks into signed tokens. Minter tokens are
// handed to any well-formed address; owner tokens additionally require
// the configured owner address and its shared secret.
type Issuer struct {
	tokens          *Service
	owner           id.Address
	ownerSecretHash string
}

// NewIssuer builds an issuer bound to one owner identity. An empty
// secret hash disables owner token issuance entirely.
func NewIssuer(tokens *Service, owner id.Address, ownerSecretHash string) *Issuer {
	return &Issuer{
		tokens:          tokens,
		owner:           owner,
		ownerSecretHash: ownerSecretHash,
	}
}

// IssueToken authenticates the request and returns a signed bearer
// token. Owner failures collapse into one Unauthorized so callers
// cannot probe which part of the credential was wrong.
func (i *Issuer) IssueToken(address id.Address, role string, ownerSecret string) (string, error) {
	if role != RoleOwner && role != RoleMinter {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be minter or owner")
	}
	if address.IsZero() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be the zero address")
	}

	if role == RoleOwner {
		if i.ownerSecretHash == "" || address != i.owner {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid owner credentials")
		}
		if err := VerifySecret(ownerSecret, i.ownerSecretHash); err != nil {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid owner credentials")
		}
	}

	return i.tokens.GenerateToken(address, role)
}

// TokenTTL reports the lifetime of tokens this issuer hands out.
func (i *Issuer) TokenTTL() time.Duration {
	return i.tokens.TokenTTL()
}
