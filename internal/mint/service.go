// Package mint implements the token issuance engine: the admission
// gate, the atomic issuance transaction, and the owner administration
// surface.
package mint

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mintgate/internal/allowlist"
	"mintgate/internal/metadata"
	"mintgate/internal/mint/metrics"
	"mintgate/internal/mint/models"
	"mintgate/internal/registry"
	"mintgate/internal/treasury"
	id "mintgate/pkg/domain"
	dErrors "mintgate/pkg/domain-errors"
	"mintgate/pkg/platform/events"
	"mintgate/pkg/requestcontext"
)

// Service is the issuance engine. It owns the collection aggregate, the
// treasury ledger and the notification log, and serializes every
// state-mutating operation behind one mutex: an admission check plus
// its issuance transaction, or an administration call, runs as one
// indivisible critical section. A concurrent request never observes a
// partially-updated collection, and the lock is held across external
// calls (registry writes, fund transfers) made inside the section.
//
// Errors returned from the engine are terminal: the operation had no
// effect and retrying is the caller's decision.
type Service struct {
	mu         sync.Mutex
	collection *models.Collection
	owner      id.Address
	registry   registry.Registry
	allowlist  allowlist.Store
	transferer treasury.Transferer
	resolver   *metadata.Resolver
	ledger     *treasury.Ledger
	log        *events.Log
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the engine around an initialized collection aggregate.
// The owner address is the only identity admitted to administration
// operations.
func New(
	collection *models.Collection,
	owner id.Address,
	reg registry.Registry,
	allow allowlist.Store,
	transferer treasury.Transferer,
	resolver *metadata.Resolver,
	opts ...Option,
) *Service {
	s := &Service{
		collection: collection,
		owner:      owner,
		registry:   reg,
		allowlist:  allow,
		transferer: transferer,
		resolver:   resolver,
		ledger:     treasury.NewLedger(),
		log:        events.NewLog(),
		tracer:     otel.Tracer("mintgate/internal/mint"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receipt describes one successful issuance: the dense id range
// assigned to the caller and the payment kept by the treasury.
type Receipt struct {
	Caller   id.Address
	Quantity uint64
	FirstID  id.TokenID
	LastID   id.TokenID
	Payment  *uint256.Int
	Sequence uint64
}

// TreasuryStats is a point-in-time view of the treasury ledger.
type TreasuryStats struct {
	Balance        *uint256.Int
	TotalReceived  *uint256.Int
	TotalWithdrawn *uint256.Int
}

// Mint runs the admission gate against a consistent snapshot and, when
// every precondition holds, issues quantity records to the caller as
// one atomic transaction. Ids are assigned densely from totalSupply+1.
// The full payment is credited to the treasury, overpayment included;
// nothing is ever refunded on success. On any failure no state changes
// and the first violated precondition is reported.
func (s *Service) Mint(ctx context.Context, caller id.Address, quantity uint64, payment *uint256.Int) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "mint.issue")
	defer span.End()
	span.SetAttributes(
		attribute.String("mint.caller", caller.String()),
		attribute.Int64("mint.quantity", int64(quantity)),
	)

	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "caller address is required")
	}
	if payment == nil {
		payment = new(uint256.Int)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	now := requestcontext.Now(ctx)
	snapshot := s.collection.Snapshot()

	// Membership is gathered only when the gate will consult it, so a
	// paused collection still reports Paused when the store is down.
	allowlisted := false
	if snapshot.WhitelistOnly && !snapshot.Paused {
		var err error
		allowlisted, err = s.allowlist.Contains(ctx, caller)
		if err != nil {
			span.RecordError(err)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "allow-list lookup failed")
		}
	}

	if err := Admit(AdmissionRequest{
		Collection:  snapshot,
		Allowlisted: allowlisted,
		Quantity:    quantity,
		Payment:     payment,
		Now:         now,
	}); err != nil {
		span.RecordError(err)
		s.metrics.ObserveRejection(string(dErrors.CodeOf(err)))
		if s.logger != nil {
			s.logger.WarnContext(ctx, "mint rejected",
				"caller", caller.String(),
				"quantity", quantity,
				"reason", string(dErrors.CodeOf(err)),
			)
		}
		return nil, err
	}

	firstID := id.TokenID(snapshot.TotalSupply + 1)
	lastID := id.TokenID(snapshot.TotalSupply + quantity)
	ids := make([]id.TokenID, 0, quantity)
	for tokenID := firstID; tokenID <= lastID; tokenID++ {
		ids = append(ids, tokenID)
	}

	// Payment lands first; a registry fault hands it back wholesale.
	if err := s.ledger.Credit(payment); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment credit failed")
	}
	if err := s.registry.CreateBatch(ctx, caller, ids); err != nil {
		if debitErr := s.ledger.Debit(payment); debitErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to return payment after registry fault",
				"caller", caller.String(),
				"error", debitErr,
			)
		}
		span.RecordError(err)
		s.metrics.ObserveRejection(string(dErrors.CodeIssuanceFailed))
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "issuance rolled back",
				"caller", caller.String(),
				"quantity", quantity,
				"first_id", uint64(firstID),
				"error", err,
			)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeIssuanceFailed, "registry rejected issuance")
	}

	s.collection.ApplyIssuance(quantity, now)
	event := s.emit(ctx, events.NewMint(caller, quantity, firstID, lastID),
		"caller", caller.String(),
		"quantity", quantity,
		"first_id", uint64(firstID),
		"last_id", uint64(lastID),
	)

	s.metrics.ObserveMint(quantity)
	s.metrics.ObserveIssuanceDuration(time.Since(started))

	return &Receipt{
		Caller:   caller,
		Quantity: quantity,
		FirstID:  firstID,
		LastID:   lastID,
		Payment:  new(uint256.Int).Set(payment),
		Sequence: event.Sequence,
	}, nil
}

// Withdraw transfers the entire treasury balance to the owner. The
// balance survives a failed transfer untouched. A zero balance
// withdraws zero and still notifies.
func (s *Service) Withdraw(ctx context.Context, caller id.Address) (*uint256.Int, error) {
	ctx, span := s.tracer.Start(ctx, "mint.withdraw")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "withdraw"); err != nil {
		return nil, err
	}

	amount, err := s.ledger.WithdrawAll(ctx, s.owner, s.transferer)
	if err != nil {
		span.RecordError(err)
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "withdrawal failed", "error", err)
		}
		return nil, err
	}

	s.emit(ctx, events.NewWithdraw(s.owner, amount), "amount", amount.Dec())
	s.metrics.ObserveAdminOperation("withdraw")
	return amount, nil
}

// Pause stops all admission until Unpause.
func (s *Service) Pause(ctx context.Context, caller id.Address) error {
	return s.setPaused(ctx, caller, true, "pause")
}

// Unpause restores normal admission.
func (s *Service) Unpause(ctx context.Context, caller id.Address) error {
	return s.setPaused(ctx, caller, false, "unpause")
}

func (s *Service) setPaused(ctx context.Context, caller id.Address, paused bool, operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, operation); err != nil {
		return err
	}

	value := s.collection.ApplySetPaused(paused, requestcontext.Now(ctx))
	s.emit(ctx, events.NewPauseStateChanged(value), "paused", value)
	s.metrics.ObserveAdminOperation(operation)
	return nil
}

// ToggleWhitelistOnly flips allow-list enforcement and returns the new
// value. Two consecutive calls restore the original setting.
func (s *Service) ToggleWhitelistOnly(ctx context.Context, caller id.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "toggle_whitelist_only"); err != nil {
		return false, err
	}

	value := s.collection.ApplyToggleWhitelistOnly(requestcontext.Now(ctx))
	s.emit(ctx, events.NewWhitelistOnlyToggled(value), "whitelist_only", value)
	s.metrics.ObserveAdminOperation("toggle_whitelist_only")
	return value, nil
}

// AddToWhitelist marks one address as allow-listed. Re-adding a member
// succeeds and notifies again.
func (s *Service) AddToWhitelist(ctx context.Context, caller id.Address, address id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "add_to_whitelist"); err != nil {
		return err
	}
	if address.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}

	if err := s.allowlist.Add(ctx, address); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add allow-list member")
	}
	s.emit(ctx, events.NewAddedToWhitelist(address), "address", address.String())
	s.metrics.ObserveAdminOperation("add_to_whitelist")
	return nil
}

// AddManyToWhitelist marks every address as allow-listed in one step.
// Notifications follow input order, duplicates included; a store fault
// leaves the allow-list unchanged and emits nothing.
func (s *Service) AddManyToWhitelist(ctx context.Context, caller id.Address, addresses []id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "add_many_to_whitelist"); err != nil {
		return err
	}
	for _, address := range addresses {
		if address.IsZero() {
			return dErrors.New(dErrors.CodeInvalidInput, "address is required")
		}
	}

	if err := s.allowlist.AddMany(ctx, addresses); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add allow-list members")
	}
	for _, address := range addresses {
		s.emit(ctx, events.NewAddedToWhitelist(address), "address", address.String())
	}
	s.metrics.ObserveAdminOperation("add_many_to_whitelist")
	return nil
}

// RemoveFromWhitelist clears one address's allow-list membership.
// Removing a non-member succeeds and still notifies.
func (s *Service) RemoveFromWhitelist(ctx context.Context, caller id.Address, address id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "remove_from_whitelist"); err != nil {
		return err
	}
	if address.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}

	if err := s.allowlist.Remove(ctx, address); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove allow-list member")
	}
	s.emit(ctx, events.NewRemovedFromWhitelist(address), "address", address.String())
	s.metrics.ObserveAdminOperation("remove_from_whitelist")
	return nil
}

// SetCost replaces the per-record price. No notification is emitted;
// price changes are visible only through the read surface.
func (s *Service) SetCost(ctx context.Context, caller id.Address, cost *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "set_cost"); err != nil {
		return err
	}
	if cost == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "cost is required")
	}

	s.collection.ApplySetCost(cost, requestcontext.Now(ctx))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "cost updated", "cost", cost.Dec())
	}
	s.metrics.ObserveAdminOperation("set_cost")
	return nil
}

// SetMaxMintPerCall replaces the per-request quantity bound. Zero is
// allowed and blocks every positive quantity at the per-call gate. No
// notification is emitted.
func (s *Service) SetMaxMintPerCall(ctx context.Context, caller id.Address, limit uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "set_max_mint_per_call"); err != nil {
		return err
	}

	s.collection.ApplySetMaxMintPerCall(limit, requestcontext.Now(ctx))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "max mint per call updated", "limit", limit)
	}
	s.metrics.ObserveAdminOperation("set_max_mint_per_call")
	return nil
}

// SetBaseMetadataLocation repoints metadata resolution for all tokens.
func (s *Service) SetBaseMetadataLocation(ctx context.Context, caller id.Address, baseLocation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "set_base_metadata_location"); err != nil {
		return err
	}

	s.resolver.SetBaseLocation(baseLocation)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "base metadata location updated", "base_location", baseLocation)
	}
	s.metrics.ObserveAdminOperation("set_base_metadata_location")
	return nil
}

// SetMetadataExtension replaces the metadata file suffix.
func (s *Service) SetMetadataExtension(ctx context.Context, caller id.Address, extension string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(ctx, caller, "set_metadata_extension"); err != nil {
		return err
	}

	s.resolver.SetExtension(extension)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "metadata extension updated", "extension", extension)
	}
	s.metrics.ObserveAdminOperation("set_metadata_extension")
	return nil
}

// Snapshot returns a consistent copy of the collection state.
func (s *Service) Snapshot(_ context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Snapshot()
}

// IsAddressWhitelisted reports allow-list membership. Open to any
// caller.
func (s *Service) IsAddressWhitelisted(ctx context.Context, address id.Address) (bool, error) {
	allowlisted, err := s.allowlist.Contains(ctx, address)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "allow-list lookup failed")
	}
	return allowlisted, nil
}

// AllowlistMembers returns every allow-listed address in ascending
// order.
func (s *Service) AllowlistMembers(ctx context.Context) ([]id.Address, error) {
	members, err := s.allowlist.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "allow-list listing failed")
	}
	return members, nil
}

// BalanceOf reports how many records the address owns.
func (s *Service) BalanceOf(ctx context.Context, address id.Address) (uint64, error) {
	return s.registry.BalanceOf(ctx, address)
}

// TokensOwnedBy returns the address's token ids in ascending order, a
// snapshot at call time.
func (s *Service) TokensOwnedBy(ctx context.Context, address id.Address) ([]id.TokenID, error) {
	return s.registry.TokensOwnedBy(ctx, address)
}

// OwnerOf resolves the owner of one issued token.
func (s *Service) OwnerOf(ctx context.Context, tokenID id.TokenID) (id.Address, error) {
	return s.registry.OwnerOf(ctx, tokenID)
}

// TokenURI resolves the metadata URI for an issued token.
func (s *Service) TokenURI(ctx context.Context, tokenID id.TokenID) (string, error) {
	snapshot := s.Snapshot(ctx)
	return s.resolver.TokenURI(tokenID, snapshot.TotalSupply)
}

// MetadataLocation returns the configured base location and extension.
func (s *Service) MetadataLocation(_ context.Context) (string, string) {
	return s.resolver.BaseLocation(), s.resolver.Extension()
}

// Treasury returns a point-in-time view of the treasury ledger.
func (s *Service) Treasury(_ context.Context) TreasuryStats {
	return TreasuryStats{
		Balance:        s.ledger.Balance(),
		TotalReceived:  s.ledger.TotalReceived(),
		TotalWithdrawn: s.ledger.TotalWithdrawn(),
	}
}

// Events exposes the notification log for reads and relay attachment.
func (s *Service) Events() *events.Log {
	return s.log
}

// Owner returns the administration identity.
func (s *Service) Owner() id.Address {
	return s.owner
}

func (s *Service) requireOwner(ctx context.Context, caller id.Address, operation string) error {
	if caller != s.owner {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "unauthorized administration attempt",
				"operation", operation,
				"caller", caller.String(),
			)
		}
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the collection owner")
	}
	return nil
}

// emit appends one notification to the log and writes the audit line.
// Log appends assign the sequence and cannot fail, so emission never
// aborts a committed state change.
func (s *Service) emit(ctx context.Context, event events.Event, attributes ...any) events.Event {
	event.RequestID = requestcontext.RequestID(ctx)
	appended, _ := s.log.Append(ctx, event)
	s.logEvent(ctx, appended, attributes...)
	return appended
}

func (s *Service) logEvent(ctx context.Context, event events.Event, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event.Kind), "sequence", event.Sequence, "log_type", "audit")
	s.logger.InfoContext(ctx, string(event.Kind), args...)
}
