// Package httputil holds the JSON helpers shared by every HTTP handler:
// response writing, error envelopes, and request decoding with validation.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "mintgate/pkg/domain-errors"
)

// Validatable is implemented by request types that validate and parse
// themselves after JSON decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError translates a domain error into the JSON error envelope.
// Server-side faults (5xx) omit the description so internals never leak
// into responses; client errors carry the message to help callers fix
// their request.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if status < http.StatusInternalServerError {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) && domainErr.Message != "" {
			body["error_description"] = domainErr.Message
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeAndPrepare decodes the request body into T, runs its Validate
// method, and writes the error envelope itself when either step fails.
// Handlers only proceed when the second return is true.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "invalid request body",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	prepared := PT(&payload)
	if err := prepared.Validate(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		WriteError(w, err)
		return nil, false
	}

	return prepared, true
}
