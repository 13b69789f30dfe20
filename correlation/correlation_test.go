package correlation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/skywave/onebusaway-siri/types"
)

func TestDefault_RequestAndStatusAgree(t *testing.T) {
	c := Default{}
	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "mta"}
	resp := &types.SubscriptionResponse{ResponderRef: "mta"}

	reqID := c.IDFromRequest(doc, types.SubscriptionDescriptor{SubscriptionIdentifier: "vm-1"})
	statusID := c.IDFromStatus(resp, types.StatusEntry{SubscriberRef: "client", SubscriptionRef: "vm-1", Status: true})

	require.Equal(t, types.SubscriptionID{Server: "mta", Subscriber: "client", Subscription: "vm-1"}, reqID)
	require.Equal(t, reqID, statusID)
}

func TestDefault_DescriptorSubscriberOverridesRequestor(t *testing.T) {
	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "mta"}

	id := Default{}.IDFromRequest(doc, types.SubscriptionDescriptor{SubscriberRef: "other", SubscriptionIdentifier: "1"})

	require.Equal(t, "other", id.Subscriber)
}

func TestDefault_IgnoreServer(t *testing.T) {
	c := Default{IgnoreServer: true}
	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "mta"}
	resp := &types.SubscriptionResponse{ResponderRef: "mta-frontend-3"}

	reqID := c.IDFromRequest(doc, types.SubscriptionDescriptor{SubscriptionIdentifier: "1"})
	statusID := c.IDFromStatus(resp, types.StatusEntry{SubscriberRef: "client", SubscriptionRef: "1"})

	require.Empty(t, reqID.Server)
	require.Equal(t, reqID, statusID)
}

func TestDefault_NilDocuments(t *testing.T) {
	c := Default{}

	id := c.IDFromRequest(nil, types.SubscriptionDescriptor{SubscriptionIdentifier: "1"})
	require.Equal(t, types.SubscriptionID{Subscription: "1"}, id)

	id = c.IDFromStatus(nil, types.StatusEntry{SubscriberRef: "me", SubscriptionRef: "1"})
	require.Equal(t, types.SubscriptionID{Subscriber: "me", Subscription: "1"}, id)
}

func TestAssignIdentifiers(t *testing.T) {
	require.Zero(t, AssignIdentifiers(nil))

	doc := &types.SubscriptionRequest{RequestorRef: "client"}
	doc.Add(types.ModuleStopMonitoring,
		types.SubscriptionDescriptor{SubscriptionIdentifier: "keep"},
		types.SubscriptionDescriptor{},
	)
	doc.Add(types.ModuleVehicleMonitoring, types.SubscriptionDescriptor{})

	require.Equal(t, 2, AssignIdentifiers(doc))

	sm := doc.SubscriptionsFor(types.ModuleStopMonitoring)
	require.Equal(t, "keep", sm[0].SubscriptionIdentifier)
	_, err := uuid.Parse(sm[1].SubscriptionIdentifier)
	require.NoError(t, err)

	vm := doc.SubscriptionsFor(types.ModuleVehicleMonitoring)
	require.NotEqual(t, sm[1].SubscriptionIdentifier, vm[0].SubscriptionIdentifier)

	// Idempotent once every descriptor has an identifier
	require.Zero(t, AssignIdentifiers(doc))
}
