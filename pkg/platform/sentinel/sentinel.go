package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not admission verdicts:
// - ErrNotFound: record does not exist in the store
// - ErrDuplicate: a record with the same id already exists
//
// For admission and authorization failures, use pkg/domain-errors directly.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)
