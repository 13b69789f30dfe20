package types

import "time"

// ClientRequest is the client-side envelope of an outgoing request.
//
// It carries delivery parameters that the transport and the active-subscription
// store need later on; the manager itself treats it as opaque.
type ClientRequest struct {
	// TargetURL is the address of the producer (an HTTP URL or a NATS subject).
	TargetURL string `cbor:"1,keyasint"`

	// TargetVersion is the SIRI protocol version spoken by the producer.
	TargetVersion string `cbor:"2,keyasint"`

	// InitialTerminationDuration is how long the producer should keep the subscription alive.
	InitialTerminationDuration time.Duration `cbor:"3,keyasint"`

	// HeartbeatInterval is the requested heartbeat period (0 = none).
	HeartbeatInterval time.Duration `cbor:"4,keyasint"`

	// Payload is the subscription document sent to the producer.
	Payload *SubscriptionRequest `cbor:"5,keyasint"`
}

// SubscriptionDescriptor is the raw per-module subscription entry of a request.
type SubscriptionDescriptor struct {
	// SubscriberRef overrides the document-level requestor for this entry.
	SubscriberRef string `cbor:"1,keyasint"`

	// SubscriptionIdentifier names the subscription within the subscriber.
	SubscriptionIdentifier string `cbor:"2,keyasint"`

	// InitialTerminationTime is the requested end of the subscription.
	InitialTerminationTime time.Time `cbor:"3,keyasint"`

	// Filter holds module-specific selection criteria (e.g. LineRef, MonitoringRef).
	Filter map[string]string `cbor:"4,keyasint"`
}

// SubscriptionRequest is the structured subscription document.
//
// Descriptors are grouped per module type; a document may mix several modules.
type SubscriptionRequest struct {
	// RequestorRef identifies the subscribing client.
	RequestorRef string `cbor:"1,keyasint"`

	// ProducerRef identifies the server the request is addressed to.
	ProducerRef string `cbor:"2,keyasint"`

	// ConsumerAddress is where the producer should deliver data.
	ConsumerAddress string `cbor:"3,keyasint"`

	// RequestTimestamp is when the document was built.
	RequestTimestamp time.Time `cbor:"4,keyasint"`

	// Subscriptions holds descriptors keyed by module type.
	Subscriptions map[ModuleType][]SubscriptionDescriptor `cbor:"5,keyasint"`
}

// SubscriptionsFor returns the descriptors belonging to module type m.
func (r *SubscriptionRequest) SubscriptionsFor(m ModuleType) []SubscriptionDescriptor {
	if r == nil {
		return nil
	}

	return r.Subscriptions[m]
}

// Add appends descriptors for module type m.
func (r *SubscriptionRequest) Add(m ModuleType, descriptors ...SubscriptionDescriptor) {
	if r.Subscriptions == nil {
		r.Subscriptions = make(map[ModuleType][]SubscriptionDescriptor)
	}
	r.Subscriptions[m] = append(r.Subscriptions[m], descriptors...)
}

// ErrorCondition describes why a producer rejected a subscription.
type ErrorCondition struct {
	// Kind is the SIRI error type (e.g. "CapabilityNotSupportedError").
	Kind string `cbor:"1,keyasint"`

	// Description is the free-text explanation, if any.
	Description string `cbor:"2,keyasint"`
}

// StatusEntry is one per-subscription status of a subscription response.
type StatusEntry struct {
	// SubscriberRef echoes the subscriber reference of the request.
	SubscriberRef string `cbor:"1,keyasint"`

	// SubscriptionRef echoes the subscription identifier of the request.
	SubscriptionRef string `cbor:"2,keyasint"`

	// Status is true when the producer accepted the subscription.
	Status bool `cbor:"3,keyasint"`

	// ErrorCondition is set when Status is false.
	ErrorCondition *ErrorCondition `cbor:"4,keyasint"`

	// ValidUntil is the producer-granted end of the subscription.
	ValidUntil time.Time `cbor:"5,keyasint"`
}

// OK reports whether the entry accepts the subscription.
func (s StatusEntry) OK() bool {
	return s.Status
}

// SubscriptionResponse is the producer's answer to a SubscriptionRequest.
type SubscriptionResponse struct {
	// ResponderRef identifies the producer that answered.
	ResponderRef string `cbor:"1,keyasint"`

	// ResponseTimestamp is when the producer built the response.
	ResponseTimestamp time.Time `cbor:"2,keyasint"`

	// ResponseStatus lists one entry per subscription, in producer order.
	ResponseStatus []StatusEntry `cbor:"3,keyasint"`
}
