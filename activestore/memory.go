package activestore

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/skywave/onebusaway-siri/types"
)

// Memory is an in-process ActiveStore.
//
// Reads never block writers, so ModuleTypeOf is safe to call while the
// pending registry is locked.
type Memory struct {
	entries *xsync.Map[types.SubscriptionID, Active]
	now     func() time.Time
}

// Compile-time assertion that Memory implements ActiveStore.
var _ types.ActiveStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: xsync.NewMap[types.SubscriptionID, Active](),
		now:     time.Now,
	}
}

// ModuleTypeOf implements types.ActiveStore.
func (s *Memory) ModuleTypeOf(id types.SubscriptionID) (types.ModuleType, bool) {
	a, ok := s.entries.Load(id)
	if !ok {
		return 0, false
	}

	return a.ModuleType, true
}

// Promote implements types.ActiveStore.
func (s *Memory) Promote(resp *types.SubscriptionResponse, status types.StatusEntry, id types.SubscriptionID,
	pending types.PendingSubscription,
) {
	s.Put(newActive(resp, status, id, pending, s.now()))
}

// Put stores a, replacing any entry with the same id.
func (s *Memory) Put(a Active) {
	s.entries.Store(a.ID, a)
}

// Get returns the active subscription for id.
func (s *Memory) Get(id types.SubscriptionID) (Active, bool) {
	return s.entries.Load(id)
}

// Remove deletes id and reports whether it was present.
func (s *Memory) Remove(id types.SubscriptionID) bool {
	_, ok := s.entries.LoadAndDelete(id)
	return ok
}

// Len returns the number of active subscriptions.
func (s *Memory) Len() int {
	return s.entries.Size()
}

// All returns a snapshot of every active subscription in no particular order.
func (s *Memory) All() []Active {
	out := make([]Active, 0, s.entries.Size())
	s.entries.Range(func(_ types.SubscriptionID, a Active) bool {
		out = append(out, a)
		return true
	})

	return out
}

// Prune removes subscriptions whose validity ended at or before now.
//
// Returns:
//   - []types.SubscriptionID: Ids that were removed
func (s *Memory) Prune(now time.Time) []types.SubscriptionID {
	var removed []types.SubscriptionID
	s.entries.Range(func(id types.SubscriptionID, a Active) bool {
		if a.Expired(now) {
			if _, ok := s.entries.LoadAndDelete(id); ok {
				removed = append(removed, id)
			}
		}

		return true
	})

	return removed
}
