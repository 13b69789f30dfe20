package natstransport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	siri "github.com/skywave/onebusaway-siri"
	"github.com/skywave/onebusaway-siri/activestore"
	"github.com/skywave/onebusaway-siri/correlation"
	siritest "github.com/skywave/onebusaway-siri/testing"
	"github.com/skywave/onebusaway-siri/types"
	"github.com/skywave/onebusaway-siri/wire"
)

const (
	requestSubject  = "siri.test.requests"
	responseSubject = "siri.test.responses"
)

// startProducer answers every request on requestSubject, accepting the
// subscriptions for which accept returns true.
func startProducer(t *testing.T, ns *server.Server, accept func(types.SubscriptionDescriptor) bool) <-chan *types.ClientRequest {
	t.Helper()

	received := make(chan *types.ClientRequest, 16)
	producer := siritest.Connect(t, ns)

	_, err := producer.Subscribe(requestSubject, func(msg *nats.Msg) {
		req, err := wire.DecodeRequest(msg.Data)
		if err != nil {
			return
		}
		received <- req

		doc := req.Payload
		resp := &types.SubscriptionResponse{ResponderRef: doc.ProducerRef}
		for _, m := range types.AllModuleTypes() {
			for _, d := range doc.SubscriptionsFor(m) {
				subscriber := d.SubscriberRef
				if subscriber == "" {
					subscriber = doc.RequestorRef
				}
				status := types.StatusEntry{
					SubscriberRef:   subscriber,
					SubscriptionRef: d.SubscriptionIdentifier,
					Status:          accept(d),
				}
				if !status.Status {
					status.ErrorCondition = &types.ErrorCondition{Kind: "CapabilityNotSupportedError"}
				}
				resp.ResponseStatus = append(resp.ResponseStatus, status)
			}
		}

		data, err := wire.EncodeResponse(resp)
		if err != nil {
			return
		}
		_ = msg.Respond(data)
	})
	require.NoError(t, err)
	require.NoError(t, producer.Flush())

	return received
}

func newManager(t *testing.T, store types.ActiveStore, sink types.EventSink) *siri.Manager {
	t.Helper()

	cfg := siri.TestConfig()
	cfg.ResponseTimeout = 5 * time.Second
	mgr, err := siri.NewManager(&cfg, store, correlation.Default{},
		siri.WithEventSink(sink),
		siri.WithLogger(siritest.NewTestLogger(t)),
	)
	require.NoError(t, err)

	return mgr
}

func newRequest() *types.ClientRequest {
	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "producer"}
	doc.Add(types.ModuleStopMonitoring, types.SubscriptionDescriptor{SubscriptionIdentifier: "sm-1"})
	doc.Add(types.ModuleVehicleMonitoring, types.SubscriptionDescriptor{SubscriptionIdentifier: "vm-1"})

	return &types.ClientRequest{TargetVersion: "2.0", Payload: doc}
}

func TestNewClient_Validation(t *testing.T) {
	_, nc := siritest.StartEmbeddedNATS(t)
	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())

	_, err := NewClient(nil, mgr, Config{ResponseSubject: responseSubject})
	require.ErrorIs(t, err, types.ErrNATSConnectionRequired)

	_, err = NewClient(nc, nil, Config{ResponseSubject: responseSubject})
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	_, err = NewClient(nc, mgr, Config{})
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestClient_SubscribePromotesAcceptedSubscriptions(t *testing.T) {
	ns, nc := siritest.StartEmbeddedNATS(t)
	startProducer(t, ns, func(types.SubscriptionDescriptor) bool { return true })

	store := activestore.NewMemory()
	rec := siritest.NewEventRecorder()
	mgr := newManager(t, store, rec)

	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)
	require.NoError(t, client.Listen())
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Subscribe(ctx, newRequest()))

	require.Eventually(t, func() bool { return store.Len() == 2 }, 5*time.Second, 10*time.Millisecond)
	require.Zero(t, mgr.PendingCount())

	m, ok := store.ModuleTypeOf(types.SubscriptionID{Server: "producer", Subscriber: "client", Subscription: "vm-1"})
	require.True(t, ok)
	require.Equal(t, types.ModuleVehicleMonitoring, m)
	require.Empty(t, rec.Events())
}

func TestClient_SubscribeReportsRejections(t *testing.T) {
	ns, nc := siritest.StartEmbeddedNATS(t)
	startProducer(t, ns, func(d types.SubscriptionDescriptor) bool { return d.SubscriptionIdentifier == "sm-1" })

	store := activestore.NewMemory()
	rec := siritest.NewEventRecorder()
	mgr := newManager(t, store, rec)

	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)
	require.NoError(t, client.Listen())
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Subscribe(context.Background(), newRequest()))

	require.Eventually(t, func() bool { return rec.Count(types.EventRejected) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 1, store.Len())
	require.Zero(t, mgr.PendingCount())

	rejected := rec.OfKind(types.EventRejected)[0]
	require.Equal(t, "vm-1", rejected.ID.Subscription)
	require.Equal(t, "CapabilityNotSupportedError", rejected.Status.ErrorCondition.Kind)
}

func TestClient_SubscribeAssignsMissingIdentifiers(t *testing.T) {
	ns, nc := siritest.StartEmbeddedNATS(t)
	received := startProducer(t, ns, func(types.SubscriptionDescriptor) bool { return true })

	store := activestore.NewMemory()
	mgr := newManager(t, store, siritest.NewEventRecorder())

	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)
	require.NoError(t, client.Listen())
	t.Cleanup(func() { _ = client.Close() })

	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "producer"}
	doc.Add(types.ModuleGeneralMessage, types.SubscriptionDescriptor{})
	require.NoError(t, client.Subscribe(context.Background(), &types.ClientRequest{Payload: doc}))

	select {
	case req := <-received:
		require.NotEmpty(t, req.Payload.SubscriptionsFor(types.ModuleGeneralMessage)[0].SubscriptionIdentifier)
	case <-time.After(5 * time.Second):
		t.Fatal("producer did not receive the request")
	}

	require.Eventually(t, func() bool { return store.Len() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestClient_SubscribeConflictPublishesNothing(t *testing.T) {
	ns, nc := siritest.StartEmbeddedNATS(t)
	received := startProducer(t, ns, func(types.SubscriptionDescriptor) bool { return true })

	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())
	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)

	doc := &types.SubscriptionRequest{RequestorRef: "client", ProducerRef: "producer"}
	doc.Add(types.ModuleStopMonitoring, types.SubscriptionDescriptor{SubscriptionIdentifier: "dup"})
	doc.Add(types.ModuleVehicleMonitoring, types.SubscriptionDescriptor{SubscriptionIdentifier: "dup"})

	err = client.Subscribe(context.Background(), &types.ClientRequest{Payload: doc})
	require.ErrorIs(t, err, types.ErrModuleTypeConflict)
	require.Zero(t, mgr.PendingCount())

	select {
	case <-received:
		t.Fatal("conflicting request must not be published")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_SubscribeUsesTargetURL(t *testing.T) {
	ns, nc := siritest.StartEmbeddedNATS(t)
	producer := siritest.Connect(t, ns)

	sub, err := producer.SubscribeSync("siri.custom.producer")
	require.NoError(t, err)
	require.NoError(t, producer.Flush())

	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())
	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)

	req := newRequest()
	req.TargetURL = "siri.custom.producer"
	require.NoError(t, client.Subscribe(context.Background(), req))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	require.Equal(t, responseSubject, msg.Reply)
	require.Equal(t, 2, mgr.PendingCount())
}

func TestClient_SubscribeRejectsNilRequest(t *testing.T) {
	_, nc := siritest.StartEmbeddedNATS(t)
	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())
	client, err := NewClient(nc, mgr, Config{ResponseSubject: responseSubject})
	require.NoError(t, err)

	require.ErrorIs(t, client.Subscribe(context.Background(), nil), types.ErrNilRequest)
	require.ErrorIs(t, client.Subscribe(context.Background(), &types.ClientRequest{}), types.ErrNilRequest)
}

func TestClient_SubscribeWithoutSubjectRegistersNothing(t *testing.T) {
	_, nc := siritest.StartEmbeddedNATS(t)
	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())
	client, err := NewClient(nc, mgr, Config{ResponseSubject: responseSubject})
	require.NoError(t, err)

	err = client.Subscribe(context.Background(), newRequest())
	require.ErrorIs(t, err, types.ErrInvalidConfig)
	require.Zero(t, mgr.PendingCount())

	retry := newRequest()
	retry.TargetURL = requestSubject
	require.NoError(t, client.Subscribe(context.Background(), retry))
	require.Equal(t, 2, mgr.PendingCount())
}

func TestClient_ListenAndClose(t *testing.T) {
	_, nc := siritest.StartEmbeddedNATS(t)
	mgr := newManager(t, activestore.NewMemory(), siritest.NewEventRecorder())
	client, err := NewClient(nc, mgr, Config{ResponseSubject: responseSubject, QueueGroup: "clients"})
	require.NoError(t, err)

	require.NoError(t, client.Listen())
	require.ErrorIs(t, client.Listen(), types.ErrAlreadyListening)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	require.ErrorIs(t, client.Listen(), types.ErrClosed)
	require.True(t, errors.Is(client.Subscribe(context.Background(), newRequest()), types.ErrClosed))
}

func TestClient_IgnoresUndecodableResponses(t *testing.T) {
	_, nc := siritest.StartEmbeddedNATS(t)
	rec := siritest.NewEventRecorder()
	mgr := newManager(t, activestore.NewMemory(), rec)
	client, err := NewClient(nc, mgr, Config{RequestSubject: requestSubject, ResponseSubject: responseSubject})
	require.NoError(t, err)
	require.NoError(t, client.Listen())
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Subscribe(context.Background(), newRequest()))
	require.NoError(t, nc.Publish(responseSubject, []byte{0xff}))
	require.NoError(t, nc.Flush())

	unknown, err := wire.EncodeResponse(&types.SubscriptionResponse{
		ResponderRef:   "producer",
		ResponseStatus: []types.StatusEntry{{SubscriberRef: "client", SubscriptionRef: "nobody", Status: true}},
	})
	require.NoError(t, err)
	require.NoError(t, nc.Publish(responseSubject, unknown))

	require.Eventually(t, func() bool { return rec.Count(types.EventUnknownResponse) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 2, mgr.PendingCount())
}
