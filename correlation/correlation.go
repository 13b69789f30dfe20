// Package correlation derives subscription ids from SIRI request and response documents.
package correlation

import (
	"github.com/google/uuid"

	"github.com/skywave/onebusaway-siri/types"
)

// Default is the standard SIRI correlation rule.
//
// Request side: server = ProducerRef, subscriber = descriptor SubscriberRef
// (falling back to the document RequestorRef), subscription = descriptor
// SubscriptionIdentifier.
//
// Response side: server = ResponderRef, subscriber = status SubscriberRef,
// subscription = status SubscriptionRef.
//
// Producers that do not echo their own identity in ResponderRef should be used
// with IgnoreServer set, so both sides drop the server component.
type Default struct {
	IgnoreServer bool
}

// Compile-time assertion that Default implements Correlator.
var _ types.Correlator = Default{}

// IDFromRequest implements types.Correlator.
func (d Default) IDFromRequest(doc *types.SubscriptionRequest, descriptor types.SubscriptionDescriptor) types.SubscriptionID {
	id := types.SubscriptionID{
		Subscriber:   descriptor.SubscriberRef,
		Subscription: descriptor.SubscriptionIdentifier,
	}
	if doc == nil {
		return id
	}
	if id.Subscriber == "" {
		id.Subscriber = doc.RequestorRef
	}
	if !d.IgnoreServer {
		id.Server = doc.ProducerRef
	}

	return id
}

// IDFromStatus implements types.Correlator.
func (d Default) IDFromStatus(resp *types.SubscriptionResponse, status types.StatusEntry) types.SubscriptionID {
	id := types.SubscriptionID{
		Subscriber:   status.SubscriberRef,
		Subscription: status.SubscriptionRef,
	}
	if resp != nil && !d.IgnoreServer {
		id.Server = resp.ResponderRef
	}

	return id
}

// AssignIdentifiers fills every empty SubscriptionIdentifier in doc with a
// random UUID and returns how many were assigned.
//
// Call it before registering a document whose descriptors were built without
// identifiers; the producer echoes them back in SubscriptionRef.
func AssignIdentifiers(doc *types.SubscriptionRequest) int {
	if doc == nil {
		return 0
	}

	assigned := 0
	for m, descriptors := range doc.Subscriptions {
		for i := range descriptors {
			if descriptors[i].SubscriptionIdentifier != "" {
				continue
			}
			descriptors[i].SubscriptionIdentifier = uuid.NewString()
			assigned++
		}
		doc.Subscriptions[m] = descriptors
	}

	return assigned
}
