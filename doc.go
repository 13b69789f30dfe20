// Package siri negotiates SIRI subscriptions on behalf of a client.
//
// A client sends a SubscriptionRequest that may hold subscriptions for several
// SIRI module types (StopMonitoring, VehicleMonitoring, ...). Each subscription
// is recorded as pending until the producer answers with a SubscriptionResponse
// or Config.ResponseTimeout elapses. Accepted subscriptions are promoted into
// an ActiveStore; rejected, unknown and expired ones are reported to an
// EventSink.
//
// # Quick Start
//
//	cfg := siri.DefaultConfig()
//	store := activestore.NewMemory()
//
//	mgr, err := siri.NewManager(&cfg, store, correlation.Default{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := mgr.RegisterBatch(req, req.Payload); err != nil {
//	    // a subscription id is already bound to a different module type
//	}
//	// ... send req to the producer, then for every answer:
//	mgr.HandleResponse(resp)
//
// # Module Type Conflicts
//
// A subscription id (server, subscriber, subscription) may only ever be bound
// to one module type. RegisterBatch checks every id against the active store,
// the pending registry and the rest of the batch, and commits the whole batch
// only if none disagrees. Conflicts are returned as *ConflictError, which
// matches ErrModuleTypeConflict with errors.Is.
//
// # Transport
//
// The natstransport package publishes requests over NATS and feeds responses
// back into the Manager; activestore.KV keeps accepted subscriptions in a
// JetStream KV bucket so they survive restarts.
//
// See the examples/ directory for complete working programs.
package siri
