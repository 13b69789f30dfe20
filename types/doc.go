// Package types provides core type definitions and interfaces for the SIRI subscription client.
//
// This package contains shared types that are used across multiple packages.
// Keeping them separate avoids import cycles between the root siri package and
// its internal implementations.
//
// Key types:
//   - ModuleType: Closed enumeration of SIRI data modules
//   - SubscriptionID: Composite key of one subscription stream
//   - PendingSubscription: Outstanding request awaiting a producer response
//   - SubscriptionRequest / SubscriptionResponse: Protocol documents
//   - Correlator, ActiveStore, Scheduler, EventSink: Collaborator interfaces
//   - Logger, MetricsCollector: Observability interfaces
package types
