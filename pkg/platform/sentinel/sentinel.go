package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services and handlers can translate them without inspecting
// error strings.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrInvalidState: record in wrong state for the requested operation
// - ErrUnavailable: backing storage failed to read or write
//
// For input validation (bad name, bad date, bad share payload), use the
// result values from internal/validate instead; those are never errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
