// Package scheduler provides types.Scheduler implementations.
package scheduler

import (
	"time"

	"github.com/filecoin-project/go-clock"

	"github.com/skywave/onebusaway-siri/types"
)

// Clock schedules deferred work on a clock.Clock.
//
// With clock.New() it runs on real timers; tests pass clock.NewMock() and
// advance time explicitly.
type Clock struct {
	clock clock.Clock
}

// Compile-time assertion that Clock implements Scheduler.
var _ types.Scheduler = (*Clock)(nil)

// New creates a scheduler on c. A nil clock uses the wall clock.
//
// Example:
//
//	mock := clock.NewMock()
//	mgr, _ := siri.NewManager(&cfg, store, correlator, siri.WithScheduler(scheduler.New(mock)))
//	mock.Add(cfg.ResponseTimeout) // fires pending expiry tasks
func New(c clock.Clock) *Clock {
	if c == nil {
		c = clock.New()
	}

	return &Clock{clock: c}
}

// AfterFunc runs fn once, on its own goroutine, after d has elapsed.
// There is no cancellation.
func (s *Clock) AfterFunc(d time.Duration, fn func()) {
	s.clock.AfterFunc(d, fn)
}

// Now returns the scheduler's current time.
func (s *Clock) Now() time.Time {
	return s.clock.Now()
}
