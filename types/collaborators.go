package types

import "time"

// Correlator derives subscription identities from protocol documents.
//
// Both methods must be pure and deterministic so that the request side and the
// response side of one logical subscription produce the same SubscriptionID.
type Correlator interface {
	// IDFromRequest derives the id of one descriptor of an outgoing request.
	IDFromRequest(doc *SubscriptionRequest, descriptor SubscriptionDescriptor) SubscriptionID

	// IDFromStatus derives the id referenced by one status entry of a response.
	IDFromStatus(resp *SubscriptionResponse, status StatusEntry) SubscriptionID
}

// ActiveStore is the authoritative record of confirmed subscriptions.
//
// Implementations must be safe for concurrent use. ModuleTypeOf may be called
// while the pending registry is locked, so it must not call back into the
// manager and should not block on I/O.
type ActiveStore interface {
	// ModuleTypeOf returns the module type of an active subscription.
	//
	// Returns:
	//   - ModuleType: Module type of the active subscription
	//   - bool: false if no active subscription exists for id
	ModuleTypeOf(id SubscriptionID) (ModuleType, bool)

	// Promote turns a pending subscription into an active one after the
	// producer accepted it.
	//
	// Parameters:
	//   - resp: The full subscription response
	//   - status: The status entry that accepted the subscription
	//   - id: Subscription id derived from status
	//   - pending: The pending entry removed from the registry
	Promote(resp *SubscriptionResponse, status StatusEntry, id SubscriptionID, pending PendingSubscription)
}

// Scheduler runs deferred work once after a delay.
//
// AfterFunc must not block and must not run fn on the calling goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}
