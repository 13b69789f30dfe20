// Package activestore records subscriptions the producer has accepted.
//
// Two ActiveStore implementations are provided: Memory keeps everything in
// process, KV additionally writes through to a NATS JetStream KV bucket so a
// restarted client can recover its active subscriptions.
package activestore

import (
	"time"

	"github.com/skywave/onebusaway-siri/types"
)

// Active is one confirmed subscription.
type Active struct {
	ID         types.SubscriptionID         `cbor:"1,keyasint"`
	ModuleType types.ModuleType             `cbor:"2,keyasint"`
	Request    *types.ClientRequest         `cbor:"3,keyasint"`
	Descriptor types.SubscriptionDescriptor `cbor:"4,keyasint"`

	// ResponderRef is the producer that accepted the subscription.
	ResponderRef string `cbor:"5,keyasint"`

	// ValidUntil is the producer-granted end, zero when none was granted.
	ValidUntil time.Time `cbor:"6,keyasint"`

	// ActivatedAt is when the accepting response was processed.
	ActivatedAt time.Time `cbor:"7,keyasint"`
}

// Expired reports whether the producer-granted validity has passed at now.
func (a Active) Expired(now time.Time) bool {
	return !a.ValidUntil.IsZero() && !now.Before(a.ValidUntil)
}

func newActive(resp *types.SubscriptionResponse, status types.StatusEntry, id types.SubscriptionID,
	pending types.PendingSubscription, now time.Time,
) Active {
	a := Active{
		ID:          id,
		ModuleType:  pending.ModuleType,
		Request:     pending.Request,
		Descriptor:  pending.Descriptor,
		ValidUntil:  status.ValidUntil,
		ActivatedAt: now,
	}
	if resp != nil {
		a.ResponderRef = resp.ResponderRef
	}

	return a
}
