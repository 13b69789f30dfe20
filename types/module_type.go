package types

// ModuleType classifies the kind of SIRI data stream a subscription delivers.
//
// The set is closed: every value a subscription can carry is listed below and
// returned by AllModuleTypes. A SubscriptionID maps to exactly one ModuleType
// for its entire lifetime.
type ModuleType int

const (
	// ModuleProductionTimetable delivers planned timetables.
	ModuleProductionTimetable ModuleType = iota + 1

	// ModuleEstimatedTimetable delivers real-time estimated timetables.
	ModuleEstimatedTimetable

	// ModuleStopTimetable delivers planned arrivals and departures at a stop.
	ModuleStopTimetable

	// ModuleStopMonitoring delivers real-time arrivals and departures at a stop.
	ModuleStopMonitoring

	// ModuleVehicleMonitoring delivers vehicle positions and progress.
	ModuleVehicleMonitoring

	// ModuleConnectionTimetable delivers planned interchange information.
	ModuleConnectionTimetable

	// ModuleConnectionMonitoring delivers real-time interchange information.
	ModuleConnectionMonitoring

	// ModuleGeneralMessage delivers free-text service messages.
	ModuleGeneralMessage

	// ModuleFacilityMonitoring delivers facility status (lifts, escalators, ...).
	ModuleFacilityMonitoring

	// ModuleSituationExchange delivers structured disruption information.
	ModuleSituationExchange
)

var allModuleTypes = []ModuleType{
	ModuleProductionTimetable,
	ModuleEstimatedTimetable,
	ModuleStopTimetable,
	ModuleStopMonitoring,
	ModuleVehicleMonitoring,
	ModuleConnectionTimetable,
	ModuleConnectionMonitoring,
	ModuleGeneralMessage,
	ModuleFacilityMonitoring,
	ModuleSituationExchange,
}

// AllModuleTypes returns every known module type in declaration order.
//
// The returned slice is a copy and may be modified by the caller.
func AllModuleTypes() []ModuleType {
	out := make([]ModuleType, len(allModuleTypes))
	copy(out, allModuleTypes)

	return out
}

// IsValid reports whether m is one of the known module types.
func (m ModuleType) IsValid() bool {
	return m >= ModuleProductionTimetable && m <= ModuleSituationExchange
}

// String returns the SIRI service name of the module type.
func (m ModuleType) String() string {
	switch m {
	case ModuleProductionTimetable:
		return "ProductionTimetable"
	case ModuleEstimatedTimetable:
		return "EstimatedTimetable"
	case ModuleStopTimetable:
		return "StopTimetable"
	case ModuleStopMonitoring:
		return "StopMonitoring"
	case ModuleVehicleMonitoring:
		return "VehicleMonitoring"
	case ModuleConnectionTimetable:
		return "ConnectionTimetable"
	case ModuleConnectionMonitoring:
		return "ConnectionMonitoring"
	case ModuleGeneralMessage:
		return "GeneralMessage"
	case ModuleFacilityMonitoring:
		return "FacilityMonitoring"
	case ModuleSituationExchange:
		return "SituationExchange"
	default:
		return "Unknown"
	}
}
