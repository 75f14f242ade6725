package handler

import (
	"strings"

	"github.com/holiman/uint256"

	dErrors "mintgate/pkg/domain-errors"
)

// MintRequest is the HTTP request body for POST /mint.
//
// Quantity is passed through unchecked: a zero quantity must reach the
// admission gate so the caller sees the gate's verdict, not a transport
// error.
type MintRequest struct {
	Quantity uint64 `json:"quantity"`
	Payment  string `json:"payment"`

	// Parsed values (populated by Validate)
	parsedPayment *uint256.Int
}

// Validate parses the payment amount. Implements the Validatable
// interface for httputil.DecodeAndPrepare.
func (r *MintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Payment = strings.TrimSpace(r.Payment)
	if r.Payment == "" {
		r.parsedPayment = new(uint256.Int)
		return nil
	}

	payment, err := uint256.FromDecimal(r.Payment)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "payment must be a base-10 unsigned integer")
	}
	r.parsedPayment = payment

	return nil
}

// ParsedPayment returns the validated payment amount.
func (r *MintRequest) ParsedPayment() *uint256.Int {
	return r.parsedPayment
}
