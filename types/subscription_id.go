package types

import "fmt"

// SubscriptionID identifies one subscription stream.
//
// The value is immutable and comparable, so it can be used directly as a map
// key. It is produced by a Correlator from either side of the exchange; the
// same logical subscription always yields the same SubscriptionID.
type SubscriptionID struct {
	// Server identifies the producer endpoint the subscription was sent to.
	Server string `cbor:"1,keyasint" yaml:"server"`

	// Subscriber is the request-scoped subscriber reference.
	Subscriber string `cbor:"2,keyasint" yaml:"subscriber"`

	// Subscription is the subscription identifier chosen by the subscriber.
	Subscription string `cbor:"3,keyasint" yaml:"subscription"`
}

// String returns a compact human-readable form used in logs.
func (id SubscriptionID) String() string {
	if id.Server == "" {
		return fmt.Sprintf("%s/%s", id.Subscriber, id.Subscription)
	}

	return fmt.Sprintf("%s@%s/%s", id.Subscriber, id.Server, id.Subscription)
}

// IsZero reports whether the id carries no identifying fields.
func (id SubscriptionID) IsZero() bool {
	return id == SubscriptionID{}
}
