// Package handler exposes token issuance. Callers exchange an address
// (and, for the owner, a shared secret) for a bearer token accepted by
// the mint and admin APIs.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mintgate/internal/platform/metrics"
	"mintgate/internal/platform/middleware"
	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
)

// Service defines the interface for issuing signed tokens.
type Service interface {
	IssueToken(address id.Address, role string, ownerSecret string) (string, error)
	TokenTTL() time.Duration
}

// Handler wires the token endpoint to the issuer.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	rateLimit func(http.Handler) http.Handler
}

// Option configures optional handler behavior.
type Option func(*Handler)

// WithRateLimit throttles the token endpoint with the given middleware.
// Issuance is unauthenticated, so the key comes from the requested
// address in the body rather than a verified caller.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.rateLimit = mw
	}
}

// New constructs an auth handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	sub := chi.NewRouter()
	sub.Use(middleware.Recovery(h.logger))
	sub.Use(middleware.RequestID)
	sub.Use(middleware.RequestTime)
	sub.Use(middleware.Logger(h.logger))
	sub.Use(middleware.Timeout(10 * time.Second))
	sub.Use(middleware.ContentTypeJSON)
	sub.Use(middleware.LatencyMiddleware(h.metrics))

	if h.rateLimit != nil {
		sub.Use(h.rateLimit)
	}
	sub.Post("/token", h.handleToken)

	r.Mount("/auth", sub)
}

// handleToken handles POST /auth/token requests.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.service.IssueToken(req.ParsedAddress(), req.Role, req.OwnerSecret)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeUnauthorized {
			h.logger.WarnContext(ctx, "token issuance refused",
				"request_id", requestID,
				"address", req.Address,
				"role", req.Role,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "token issued",
		"request_id", requestID,
		"address", req.Address,
		"role", req.Role,
	)

	httputil.WriteJSON(w, http.StatusOK, FromToken(token, h.service.TokenTTL()))
}
