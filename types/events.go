package types

// EventKind enumerates the non-fatal conditions reported by the manager.
type EventKind int

const (
	// EventConflict reports a rejected batch registration.
	EventConflict EventKind = iota + 1

	// EventUnknownResponse reports a status entry with no matching pending subscription.
	EventUnknownResponse

	// EventRejected reports a pending subscription refused by the producer.
	EventRejected

	// EventExpired reports a pending subscription that never received a response.
	EventExpired
)

// String returns the snake_case name of the kind, used as a log field and metrics label.
func (k EventKind) String() string {
	switch k {
	case EventConflict:
		return "conflict"
	case EventUnknownResponse:
		return "unknown_response"
	case EventRejected:
		return "rejected"
	case EventExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event is one structured report emitted to an EventSink.
//
// Only the fields relevant to Kind are populated:
//   - EventConflict: ID, ModuleType (requested), Conflict
//   - EventUnknownResponse: ID, Response, Status
//   - EventRejected: ID, ModuleType, Response, Status, Pending
//   - EventExpired: ID, ModuleType, Pending
type Event struct {
	Kind       EventKind
	ID         SubscriptionID
	ModuleType ModuleType

	Conflict *ConflictError
	Response *SubscriptionResponse
	Status   *StatusEntry
	Pending  *PendingSubscription
}

// EventSink receives structured events from the manager.
//
// Report is called synchronously from registration, response handling and
// expiry. Implementations must be safe for concurrent use, must not block and
// must not panic.
type EventSink interface {
	Report(e Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(e Event)

// Report implements EventSink.
func (f EventSinkFunc) Report(e Event) { f(e) }
