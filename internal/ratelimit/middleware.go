package ratelimit

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

// KeyFunc extracts the throttling key from a request. An empty key
// means the request cannot be attributed and passes unchecked.
type KeyFunc func(r *http.Request) string

// ByCaller keys on the authenticated caller address. It must run after
// the auth middleware has placed the caller in the context.
func ByCaller(r *http.Request) string {
	caller := requestcontext.Caller(r.Context())
	if caller.IsZero() {
		return ""
	}
	return caller.String()
}

// ByBodyAddress keys on the address field of a JSON body, for
// endpoints hit before authentication. The body is restored for the
// handler.
func ByBodyAddress(r *http.Request) string {
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	payload, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(payload))
	if err != nil {
		return ""
	}

	var body struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Address))
}

// Limit throttles requests per key under the policy. The scope
// namespaces keys so endpoints sharing a store do not share budgets.
// A store failure fails open: issuance availability wins over
// throttling accuracy.
func Limit(store Store, scope string, policy Policy, key KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := store.Allow(r.Context(), scope+":"+k, policy.Limit, policy.Window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit check failed",
					"scope", scope,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			writeRateLimitHeaders(w, result)

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
					Error:       string(dErrors.CodeRateLimited),
					Description: "too many requests, slow down",
					RetryAfter:  result.RetryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type exceededResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	RetryAfter  int    `json:"retry_after"`
}

func writeRateLimitHeaders(w http.ResponseWriter, result *Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
