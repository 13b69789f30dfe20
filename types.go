package siri

import "github.com/skywave/onebusaway-siri/types"

// Re-export types from the types package.
//
// Internal packages depend on types without depending on the root package,
// while callers keep the convenience of siri.SubscriptionID, siri.Logger, etc.
type (
	ModuleType           = types.ModuleType
	SubscriptionID       = types.SubscriptionID
	PendingSubscription  = types.PendingSubscription
	ClientRequest        = types.ClientRequest
	SubscriptionRequest  = types.SubscriptionRequest
	SubscriptionResponse = types.SubscriptionResponse
	Descriptor           = types.SubscriptionDescriptor
	StatusEntry          = types.StatusEntry
	ErrorCondition       = types.ErrorCondition
	ConflictError        = types.ConflictError
	ConflictSource       = types.ConflictSource
	Event                = types.Event
	EventKind            = types.EventKind
)

// Re-export interfaces from the types package for convenience.
type (
	Correlator       = types.Correlator
	ActiveStore      = types.ActiveStore
	Scheduler        = types.Scheduler
	EventSink        = types.EventSink
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
)

// Re-export ModuleType constants from the types package.
const (
	ModuleProductionTimetable  = types.ModuleProductionTimetable
	ModuleEstimatedTimetable   = types.ModuleEstimatedTimetable
	ModuleStopTimetable        = types.ModuleStopTimetable
	ModuleStopMonitoring       = types.ModuleStopMonitoring
	ModuleVehicleMonitoring    = types.ModuleVehicleMonitoring
	ModuleConnectionTimetable  = types.ModuleConnectionTimetable
	ModuleConnectionMonitoring = types.ModuleConnectionMonitoring
	ModuleGeneralMessage       = types.ModuleGeneralMessage
	ModuleFacilityMonitoring   = types.ModuleFacilityMonitoring
	ModuleSituationExchange    = types.ModuleSituationExchange
)

// Re-export EventKind constants from the types package.
const (
	EventConflict        = types.EventConflict
	EventUnknownResponse = types.EventUnknownResponse
	EventRejected        = types.EventRejected
	EventExpired         = types.EventExpired
)
