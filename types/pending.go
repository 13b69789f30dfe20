package types

import "time"

// PendingSubscription captures one outstanding subscription request.
//
// A PendingSubscription lives in the pending registry from batch registration
// until either a matching response or the expiry sweep removes it.
type PendingSubscription struct {
	ID         SubscriptionID
	ModuleType ModuleType
	Request    *ClientRequest
	Descriptor SubscriptionDescriptor

	// RegisteredAt is when the batch containing this entry was committed.
	RegisteredAt time.Time
}
