package handler

import "time"

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// FromToken converts a signed token and its lifetime into the response
// shape. ExpiresIn is whole seconds.
func FromToken(token string, ttl time.Duration) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	}
}
