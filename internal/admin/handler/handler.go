// Package handler exposes the administration API: pause control,
// allow-list management, parameter updates, and treasury withdrawal.
// Every route requires an owner-role bearer token, and the mint service
// additionally verifies the caller address against the collection owner.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"mintgate/internal/auth"
	"mintgate/internal/mint"
	"mintgate/internal/platform/metrics"
	"mintgate/internal/platform/middleware"
	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/httputil"
	"mintgate/pkg/requestcontext"
)

// Service defines the interface for administration operations.
type Service interface {
	Pause(ctx context.Context, caller id.Address) error
	Unpause(ctx context.Context, caller id.Address) error
	ToggleWhitelistOnly(ctx context.Context, caller id.Address) (bool, error)
	AddToWhitelist(ctx context.Context, caller id.Address, address id.Address) error
	AddManyToWhitelist(ctx context.Context, caller id.Address, addresses []id.Address) error
	RemoveFromWhitelist(ctx context.Context, caller id.Address, address id.Address) error
	SetCost(ctx context.Context, caller id.Address, cost *uint256.Int) error
	SetMaxMintPerCall(ctx context.Context, caller id.Address, limit uint64) error
	SetBaseMetadataLocation(ctx context.Context, caller id.Address, baseLocation string) error
	SetMetadataExtension(ctx context.Context, caller id.Address, extension string) error
	Withdraw(ctx context.Context, caller id.Address) (*uint256.Int, error)
	AllowlistMembers(ctx context.Context) ([]id.Address, error)
	Treasury(ctx context.Context) mint.TreasuryStats
	Owner() id.Address
}

// Handler wires administration endpoints to the mint service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

// New constructs an administration handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		metrics:   metrics,
		validator: validator,
	}
}

// Register mounts the administration endpoints under /admin.
func (h *Handler) Register(r chi.Router) {
	admin := chi.NewRouter()
	admin.Use(middleware.Recovery(h.logger))
	admin.Use(middleware.RequestID)
	admin.Use(middleware.RequestTime)
	admin.Use(middleware.Logger(h.logger))
	admin.Use(middleware.Timeout(30 * time.Second))
	admin.Use(middleware.ContentTypeJSON)
	admin.Use(middleware.LatencyMiddleware(h.metrics))
	admin.Use(middleware.RequireAuth(h.validator, h.logger))
	admin.Use(middleware.RequireRole(auth.RoleOwner, h.logger))

	admin.Post("/collection/pause", h.handlePause)
	admin.Post("/collection/unpause", h.handleUnpause)
	admin.Post("/collection/whitelist-only/toggle", h.handleToggleWhitelistOnly)
	admin.Put("/collection/cost", h.handleSetCost)
	admin.Put("/collection/max-mint-per-call", h.handleSetMaxMintPerCall)
	admin.Put("/collection/metadata", h.handleSetMetadata)

	admin.Get("/allowlist", h.handleListAllowlist)
	admin.Post("/allowlist", h.handleAddAllowlist)
	admin.Post("/allowlist/batch", h.handleAddManyAllowlist)
	admin.Delete("/allowlist", h.handleRemoveAllowlist)

	admin.Get("/treasury", h.handleGetTreasury)
	admin.Post("/treasury/withdraw", h.handleWithdraw)

	r.Mount("/admin", admin)
}

// caller pulls the authenticated address the middleware stored. A zero
// caller means the route was mounted without RequireAuth.
func (h *Handler) caller(ctx context.Context, w http.ResponseWriter) (id.Address, bool) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		h.logger.ErrorContext(ctx, "caller missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.Address{}, false
	}
	return caller, true
}

// handlePause handles POST /admin/collection/pause requests.
func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	if err := h.service.Pause(ctx, caller); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, PauseResponse{Paused: true})
}

// handleUnpause handles POST /admin/collection/unpause requests.
func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	if err := h.service.Unpause(ctx, caller); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, PauseResponse{Paused: false})
}

// handleToggleWhitelistOnly handles POST /admin/collection/whitelist-only/toggle
// requests and reports the mode now in force.
func (h *Handler) handleToggleWhitelistOnly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	enabled, err := h.service.ToggleWhitelistOnly(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, WhitelistOnlyResponse{WhitelistOnly: enabled})
}

// handleSetCost handles PUT /admin/collection/cost requests.
func (h *Handler) handleSetCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetCostRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetCost(ctx, caller, req.ParsedCost()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSetMaxMintPerCall handles PUT /admin/collection/max-mint-per-call requests.
func (h *Handler) handleSetMaxMintPerCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetMaxMintPerCallRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetMaxMintPerCall(ctx, caller, req.MaxMintPerCall); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSetMetadata handles PUT /admin/collection/metadata requests.
// Omitted fields are left unchanged.
func (h *Handler) handleSetMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetMetadataRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if req.BaseLocation != nil {
		if err := h.service.SetBaseMetadataLocation(ctx, caller, *req.BaseLocation); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if req.Extension != nil {
		if err := h.service.SetMetadataExtension(ctx, caller, *req.Extension); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListAllowlist handles GET /admin/allowlist requests.
func (h *Handler) handleListAllowlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := h.service.AllowlistMembers(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAllowlistMembers(members))
}

// handleAddAllowlist handles POST /admin/allowlist requests.
func (h *Handler) handleAddAllowlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AllowlistEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddToWhitelist(ctx, caller, req.ParsedAddress()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAddManyAllowlist handles POST /admin/allowlist/batch requests.
// The batch lands all-or-nothing, and one notification per entry is
// recorded in input order.
func (h *Handler) handleAddManyAllowlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AllowlistBatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddManyToWhitelist(ctx, caller, req.ParsedAddresses()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveAllowlist handles DELETE /admin/allowlist requests.
func (h *Handler) handleRemoveAllowlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AllowlistEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.RemoveFromWhitelist(ctx, caller, req.ParsedAddress()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetTreasury handles GET /admin/treasury requests.
func (h *Handler) handleGetTreasury(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Treasury(r.Context())
	httputil.WriteJSON(w, http.StatusOK, FromTreasuryStats(stats))
}

// handleWithdraw handles POST /admin/treasury/withdraw requests.
func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.caller(ctx, w)
	if !ok {
		return
	}

	amount, err := h.service.Withdraw(ctx, caller)
	if err != nil {
		h.logger.ErrorContext(ctx, "withdrawal failed",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{
		Amount: amount.Dec(),
		To:     h.service.Owner().String(),
	})
}
