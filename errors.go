package siri

import "github.com/skywave/onebusaway-siri/types"

// Sentinel errors returned by the Manager.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrActiveStoreRequired is returned when the active-subscription store is nil.
	ErrActiveStoreRequired = types.ErrActiveStoreRequired

	// ErrCorrelatorRequired is returned when the correlator is nil.
	ErrCorrelatorRequired = types.ErrCorrelatorRequired

	// ErrNilRequest is returned when RegisterBatch is called without a subscription document.
	ErrNilRequest = types.ErrNilRequest

	// ErrModuleTypeConflict matches every *ConflictError returned by RegisterBatch.
	ErrModuleTypeConflict = types.ErrModuleTypeConflict
)
