// Package pending provides the concurrency-safe registry of pending subscriptions.
package pending

import (
	"sync"

	"github.com/skywave/onebusaway-siri/types"
)

// Lookup returns the pending entry for id, if any.
type Lookup func(id types.SubscriptionID) (types.PendingSubscription, bool)

// BuildFunc stages a batch against the current registry contents.
//
// It runs while the registry is locked for writing: lookup reads the registry
// directly and must not be retained after BuildFunc returns. Returning an error
// aborts the batch without mutating the registry.
type BuildFunc func(lookup Lookup) ([]types.PendingSubscription, error)

// Registry maps subscription ids to pending subscriptions.
//
// All synchronization is internal; callers never hold the lock. Remove is the
// only way an entry leaves the registry, and it reports whether the entry
// existed, so concurrent response handling and expiry can never both act on
// the same id.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.SubscriptionID]types.PendingSubscription
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[types.SubscriptionID]types.PendingSubscription),
	}
}

// Admit stages and commits a batch in one critical section.
//
// build sees the registry as it is when the lock is taken; no other operation
// can observe the registry between the checks build performs and the commit of
// the entries it returns.
//
// Parameters:
//   - build: Stages the batch; an error aborts with no mutation
//
// Returns:
//   - []types.SubscriptionID: Ids committed, in staging order (duplicates collapsed)
//   - error: The error returned by build
func (r *Registry) Admit(build BuildFunc) ([]types.SubscriptionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, err := build(r.lookupLocked)
	if err != nil {
		return nil, err
	}

	ids := make([]types.SubscriptionID, 0, len(batch))
	seen := make(map[types.SubscriptionID]struct{}, len(batch))
	for _, p := range batch {
		r.entries[p.ID] = p
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}

	return ids, nil
}

// Get returns the pending entry for id.
func (r *Registry) Get(id types.SubscriptionID) (types.PendingSubscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookupLocked(id)
}

// Remove deletes id and returns the entry it held.
//
// Remove is idempotent: for a given entry exactly one call observes ok == true.
func (r *Registry) Remove(id types.SubscriptionID) (types.PendingSubscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}

	return p, ok
}

// Len returns the number of pending entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// IDs returns a snapshot of the pending ids in unspecified order.
func (r *Registry) IDs() []types.SubscriptionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]types.SubscriptionID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}

	return ids
}

func (r *Registry) lookupLocked(id types.SubscriptionID) (types.PendingSubscription, bool) {
	p, ok := r.entries[id]
	return p, ok
}
