// Package domainerrors provides coded errors for the issuance domain.
//
// Services return these so transports can map failures to status codes without
// inspecting error strings. Admission verdicts, administration failures, and
// infrastructure faults all share the same shape: a stable Code plus a
// human-readable message, optionally wrapping a cause.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a failure class. Codes are part of the API surface: they
// appear in HTTP error envelopes and in emitted logs.
type Code string

const (
	// Admission verdicts, in gate order. Terminal and non-retryable; the
	// first violated precondition wins and no state changes.
	CodePaused              Code = "paused"
	CodeNotWhitelisted      Code = "not_whitelisted"
	CodeNotYetActive        Code = "not_yet_active"
	CodeZeroQuantity        Code = "zero_quantity"
	CodeInsufficientPayment Code = "insufficient_payment"
	CodeExceedsPerCallLimit Code = "exceeds_per_call_limit"
	CodeExceedsMaxSupply    Code = "exceeds_max_supply"

	// CodeIssuanceFailed reports a registry-level inconsistency during an
	// admitted mint. Unreachable while invariants hold; treated as an
	// internal-consistency fault when observed.
	CodeIssuanceFailed Code = "issuance_failed"

	// CodeUnauthorized reports a caller without the owner capability
	// attempting an administration operation.
	CodeUnauthorized Code = "unauthorized"

	// CodeTransferFailed reports the fund-transfer collaborator declining a
	// withdrawal. The held balance is unchanged.
	CodeTransferFailed Code = "transfer_failed"

	// Infrastructure and validation codes.
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeRateLimited  Code = "rate_limited"
	CodeInternal     Code = "internal"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for {
		if !errors.As(err, &domainErr) {
			return false
		}
		if domainErr.Code == code {
			return true
		}
		err = domainErr.Err
	}
}

// CodeOf extracts the outermost code from err, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status used by the transport layer.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeZeroQuantity:
		return http.StatusBadRequest
	case CodeInsufficientPayment:
		return http.StatusPaymentRequired
	case CodeUnauthorized, CodeNotWhitelisted:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodePaused, CodeNotYetActive, CodeExceedsMaxSupply:
		return http.StatusConflict
	case CodeExceedsPerCallLimit:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTransferFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
