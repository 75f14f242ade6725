// Package handler exposes the public mint API: issuance plus the read
// surface for collection state, tokens, addresses, and the notification
// log. Administration endpoints live in internal/admin/handler.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"mintgate/internal/mint"
	"mintgate/internal/mint/models"
	"mintgate/internal/platform/metrics"
	"mintgate/internal/platform/middleware"
	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/events"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/platform/sentinel"
	"mintgate/pkg/requestcontext"
)

// Service defines the interface for issuance operations and reads.
type Service interface {
	Mint(ctx context.Context, caller id.Address, quantity uint64, payment *uint256.Int) (*mint.Receipt, error)
	Snapshot(ctx context.Context) models.Snapshot
	TokenURI(ctx context.Context, tokenID id.TokenID) (string, error)
	OwnerOf(ctx context.Context, tokenID id.TokenID) (id.Address, error)
	BalanceOf(ctx context.Context, address id.Address) (uint64, error)
	TokensOwnedBy(ctx context.Context, address id.Address) ([]id.TokenID, error)
	IsAddressWhitelisted(ctx context.Context, address id.Address) (bool, error)
	Events() *events.Log
}

// Handler wires the public mint endpoints to the mint service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
	rateLimit func(http.Handler) http.Handler
}

// Option configures optional handler behavior.
type Option func(*Handler)

// WithRateLimit throttles the mint endpoint with the given middleware.
// It runs after authentication so the caller address is available as
// the throttle key.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.rateLimit = mw
	}
}

// New constructs a mint handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, validator middleware.TokenValidator, opts ...Option) *Handler {
	h := &Handler{
		service:   service,
		logger:    logger,
		metrics:   metrics,
		validator: validator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public endpoints on the router. Reads are open;
// minting requires a bearer token so the caller address is authenticated.
func (h *Handler) Register(r chi.Router) {
	public := chi.NewRouter()
	public.Use(middleware.Recovery(h.logger))
	public.Use(middleware.RequestID)
	public.Use(middleware.RequestTime)
	public.Use(middleware.Logger(h.logger))
	public.Use(middleware.Timeout(15 * time.Second))
	public.Use(middleware.ContentTypeJSON)
	public.Use(middleware.LatencyMiddleware(h.metrics))

	public.Get("/collection", h.handleGetCollection)
	public.Get("/collection/events", h.handleListEvents)
	public.Get("/tokens/{tokenID}", h.handleGetToken)
	public.Get("/addresses/{address}", h.handleGetAddress)

	public.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth(h.validator, h.logger))
		if h.rateLimit != nil {
			authed.Use(h.rateLimit)
		}
		authed.Post("/mint", h.handleMint)
	})

	r.Mount("/", public)
}

// handleMint handles POST /mint requests.
func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	receipt, err := h.service.Mint(ctx, caller, req.Quantity, req.ParsedPayment())
	if err != nil {
		// Admission verdicts are expected traffic; only infrastructure
		// faults rate an error-level line here.
		code := dErrors.CodeOf(err)
		if code == dErrors.CodeInternal || code == dErrors.CodeIssuanceFailed {
			h.logger.ErrorContext(ctx, "mint failed",
				"request_id", requestID,
				"caller", caller,
				"quantity", req.Quantity,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mint served",
		"request_id", requestID,
		"caller", caller,
		"quantity", receipt.Quantity,
		"first_id", receipt.FirstID,
		"last_id", receipt.LastID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromReceipt(receipt))
}

// handleGetCollection handles GET /collection requests.
func (h *Handler) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot(r.Context())
	httputil.WriteJSON(w, http.StatusOK, FromSnapshot(snapshot))
}

// handleGetToken handles GET /tokens/{tokenID} requests.
func (h *Handler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	owner, err := h.service.OwnerOf(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "token does not exist"))
			return
		}
		httputil.WriteError(w, err)
		return
	}

	uri, err := h.service.TokenURI(ctx, tokenID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		TokenID:  uint64(tokenID),
		Owner:    owner.String(),
		TokenURI: uri,
	})
}

// handleGetAddress handles GET /addresses/{address} requests.
func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	balance, err := h.service.BalanceOf(ctx, address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tokens, err := h.service.TokensOwnedBy(ctx, address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	whitelisted, err := h.service.IsAddressWhitelisted(ctx, address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAddressState(address, balance, tokens, whitelisted))
}

// handleListEvents handles GET /collection/events requests. Cursor
// pagination: ?after=<sequence> returns entries strictly beyond it,
// oldest first, up to ?limit.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	after, err := queryUint64(r, "after", 0)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "after must be a non-negative integer"))
		return
	}
	limit, err := queryUint64(r, "limit", defaultEventPageSize)
	if err != nil || limit == 0 || limit > maxEventPageSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and 1000"))
		return
	}

	page, err := h.service.Events().Since(ctx, after, int(limit))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEvents(after, page))
}

const (
	defaultEventPageSize = 100
	maxEventPageSize     = 1000
)

func queryUint64(r *http.Request, key string, fallback uint64) (uint64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
