package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "mintgate/pkg/domain"
	"mintgate/pkg/requestcontext"
)

// TokenValidator defines the interface for validating bearer tokens.
// The auth package provides an adapter so this package stays decoupled
// from the JWT implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the token claims the middleware consumes.
type Claims struct {
	Address string
	Role    string
	JTI     string
}

type contextKeyRole struct{}

// ContextKeyRole is exported for use in handlers.
var ContextKeyRole = contextKeyRole{}

// GetRole retrieves the authenticated role from the context.
func GetRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyRole).(string)
	if !ok {
		return ""
	}
	return role
}

// RequireAuth validates the bearer token and stores the caller address and
// role in the request context. Requests without a valid token get 401.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			caller, err := id.ParseAddress(claims.Address)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - malformed address claim",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithCaller(r.Context(), caller)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group on the authenticated role. Mount after
// RequireAuth; requests carrying any other role get 403.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if GetRole(ctx) != role {
				logger.WarnContext(ctx, "forbidden access - wrong role",
					"request_id", GetRequestID(ctx),
					"required_role", role,
				)
				writeJSONError(w, http.StatusForbidden, "unauthorized", role+" role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
