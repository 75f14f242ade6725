package auth

import (
	"mintgate/internal/platform/middleware"
)

// ToMiddlewareClaims maps token claims to the middleware's view of them.
func ToMiddlewareClaims(claims *Claims) *middleware.Claims {
	return &middleware.Claims{
		Address: claims.Address,
		Role:    claims.Role,
		JTI:     claims.ID,
	}
}

// MiddlewareAdapter lets the HTTP middleware validate tokens without
// depending on the JWT claim types.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
