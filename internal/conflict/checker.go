// Package conflict detects subscription ids bound to more than one module type.
package conflict

import "github.com/skywave/onebusaway-siri/types"

// Lookup returns the module type recorded for id by one source.
type Lookup func(id types.SubscriptionID) (types.ModuleType, bool)

// Sources are the three places a subscription id may already be bound.
// A nil lookup is treated as empty.
type Sources struct {
	Active  Lookup
	Pending Lookup
	Batch   Lookup
}

// Check reports whether id may be registered with module type m.
//
// Sources are consulted in a fixed order (active, pending, batch) and the
// first one holding a different module type is reported. An id recorded with
// the same module type is not a conflict.
//
// Returns:
//   - *types.ConflictError: nil when no source disagrees
func Check(id types.SubscriptionID, m types.ModuleType, src Sources) *types.ConflictError {
	ordered := [...]struct {
		source types.ConflictSource
		lookup Lookup
	}{
		{types.SourceActive, src.Active},
		{types.SourcePending, src.Pending},
		{types.SourceBatch, src.Batch},
	}

	for _, s := range ordered {
		if s.lookup == nil {
			continue
		}
		existing, ok := s.lookup(id)
		if ok && existing != m {
			return &types.ConflictError{
				ID:        id,
				Existing:  existing,
				Requested: m,
				Source:    s.source,
			}
		}
	}

	return nil
}
