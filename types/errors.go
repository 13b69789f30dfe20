package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the SIRI subscription client.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// External errors are wrapped with context using fmt.Errorf("%s: %w", msg, err).

// Manager errors - Public API errors returned by Manager.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrActiveStoreRequired is returned when the active-subscription store is nil.
	ErrActiveStoreRequired = errors.New("active subscription store is required")

	// ErrCorrelatorRequired is returned when the correlator is nil.
	ErrCorrelatorRequired = errors.New("correlator is required")

	// ErrNilRequest is returned when RegisterBatch is called without a subscription document.
	ErrNilRequest = errors.New("subscription request is required")

	// ErrModuleTypeConflict matches every *ConflictError via errors.Is.
	ErrModuleTypeConflict = errors.New("subscription module type conflict")
)

// Transport errors - Returned by the NATS transport and KV-backed store.
var (
	// ErrNATSConnectionRequired is returned when NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrConnectivity indicates a NATS/KV connectivity issue.
	ErrConnectivity = errors.New("connectivity issue")

	// ErrAlreadyListening is returned when Listen is called twice.
	ErrAlreadyListening = errors.New("transport already listening")

	// ErrClosed is returned by operations on a closed transport.
	ErrClosed = errors.New("transport closed")
)

// ConflictSource names where a conflicting module type was found.
type ConflictSource int

const (
	// SourceActive means an active subscription holds the id.
	SourceActive ConflictSource = iota + 1

	// SourcePending means another pending request holds the id.
	SourcePending

	// SourceBatch means an earlier entry of the same batch holds the id.
	SourceBatch
)

// String returns the lower-case name of the source.
func (s ConflictSource) String() string {
	switch s {
	case SourceActive:
		return "active"
	case SourcePending:
		return "pending"
	case SourceBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// ConflictError reports that a subscription id is already bound to a
// different module type.
type ConflictError struct {
	ID        SubscriptionID
	Existing  ModuleType
	Requested ModuleType
	Source    ConflictSource
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("subscription %s already has %s module type %s, requested %s",
		e.ID, e.Source, e.Existing, e.Requested)
}

// Is makes errors.Is(err, ErrModuleTypeConflict) true for every ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrModuleTypeConflict
}
