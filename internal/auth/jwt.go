// Package auth issues and validates the bearer tokens that bind an
// API caller to an address.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
)

// Roles carried in token claims.
const (
	// RoleOwner marks the collection owner; administration endpoints
	// require it.
	RoleOwner = "owner"
	// RoleMinter marks an ordinary caller of the issuance endpoints.
	RoleMinter = "minter"
)

// Claims represents the JWT claims for access tokens. The address is
// the caller identity every gated operation runs under.
type Claims struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// CallerAddress parses the address claim back into a domain address.
func (c *Claims) CallerAddress() (id.Address, error) {
	return id.ParseAddress(c.Address)
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewService(signingKey string, issuer string, audience string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// TokenTTL returns the lifetime stamped onto issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

// GenerateToken signs a token binding the address and role for the
// configured lifetime.
func (s *Service) GenerateToken(address id.Address, role string) (string, error) {
	if role != RoleOwner && role != RoleMinter {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}

	issuedAt := s.now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Address: address.String(),
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address.String(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a signed token, rejecting anything
// not signed with this service's HMAC key.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if _, err := claims.CallerAddress(); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
