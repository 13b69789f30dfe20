package testing

import (
	"sync"

	"github.com/skywave/onebusaway-siri/types"
)

// EventRecorder is an EventSink that keeps every reported event in order.
//
// It is safe for concurrent use, so it can observe expiry tasks running on
// scheduler goroutines.
type EventRecorder struct {
	mu     sync.Mutex
	events []types.Event
}

// Compile-time assertion that EventRecorder implements EventSink.
var _ types.EventSink = (*EventRecorder)(nil)

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Report implements types.EventSink.
func (r *EventRecorder) Report(e types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events.
func (r *EventRecorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.Event, len(r.events))
	copy(out, r.events)

	return out
}

// OfKind returns the recorded events of one kind.
func (r *EventRecorder) OfKind(kind types.EventKind) []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []types.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// Count returns how many events of kind were recorded.
func (r *EventRecorder) Count(kind types.EventKind) int {
	return len(r.OfKind(kind))
}

// Reset discards all recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
