package mint

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"mintgate/internal/mint/models"
	dErrors "mintgate/pkg/domain-errors"
)

// AdmissionRequest carries the evidence the admission gate evaluates: a
// consistent snapshot of collection state, the caller's allow-list
// membership, and the offer itself. The service gathers all of it
// inside the critical section before calling Admit.
type AdmissionRequest struct {
	Collection  models.Snapshot
	Allowlisted bool
	Quantity    uint64
	Payment     *uint256.Int
	Now         time.Time
}

// Admit applies the issuance precondition chain to a mint request.
// This is pure domain logic - no I/O, no side effects. A nil payment
// counts as zero.
//
// Rule priority (fail-fast, first violation wins):
//  1. Pause switch - a paused collection admits nothing
//  2. Allow-list membership - enforced only in whitelist-only mode
//  3. Activation time - no admission before the configured opening
//  4. Non-zero quantity
//  5. Payment covers cost * quantity - excess payment is accepted and kept
//  6. Per-call quantity limit
//  7. Supply cap - issued ids never pass maxSupply
func Admit(req AdmissionRequest) error {
	collection := req.Collection

	// Rule 1: pause switch
	if collection.Paused {
		return dErrors.New(dErrors.CodePaused, "issuance is paused")
	}

	// Rule 2: allow-list membership, only while whitelist-only mode is on
	if collection.WhitelistOnly && !req.Allowlisted {
		return dErrors.New(dErrors.CodeNotWhitelisted, "caller is not on the allow-list")
	}

	// Rule 3: activation time
	if req.Now.Before(collection.ActivationTime) {
		return dErrors.New(dErrors.CodeNotYetActive, fmt.Sprintf("issuance activates at %s", collection.ActivationTime.UTC().Format(time.RFC3339)))
	}

	// Rule 4: non-zero quantity
	if req.Quantity == 0 {
		return dErrors.New(dErrors.CodeZeroQuantity, "quantity must be positive")
	}

	// Rule 5: payment covers cost * quantity
	payment := req.Payment
	if payment == nil {
		payment = new(uint256.Int)
	}
	required, overflow := RequiredPayment(&collection.Cost, req.Quantity)
	if overflow {
		return dErrors.New(dErrors.CodeInsufficientPayment, "required payment exceeds the representable range")
	}
	if payment.Lt(required) {
		return dErrors.New(dErrors.CodeInsufficientPayment, fmt.Sprintf("payment %s does not cover required %s", payment.Dec(), required.Dec()))
	}

	// Rule 6: per-call quantity limit
	if req.Quantity > collection.MaxMintPerCall {
		return dErrors.New(dErrors.CodeExceedsPerCallLimit, fmt.Sprintf("quantity %d exceeds per-call limit %d", req.Quantity, collection.MaxMintPerCall))
	}

	// Rule 7: supply cap
	if req.Quantity > collection.MaxSupply-collection.TotalSupply {
		return dErrors.New(dErrors.CodeExceedsMaxSupply, fmt.Sprintf("quantity %d exceeds remaining supply %d", req.Quantity, collection.MaxSupply-collection.TotalSupply))
	}

	return nil
}

// RequiredPayment computes cost * quantity. The overflow flag is set
// when the product does not fit in 256 bits, in which case no payment
// can cover it.
func RequiredPayment(cost *uint256.Int, quantity uint64) (*uint256.Int, bool) {
	required, overflow := new(uint256.Int).MulOverflow(cost, uint256.NewInt(quantity))
	return required, overflow
}
