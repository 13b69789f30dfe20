package siri

import (
	"errors"
	"fmt"
	"time"

	"github.com/skywave/onebusaway-siri/events"
	"github.com/skywave/onebusaway-siri/internal/conflict"
	"github.com/skywave/onebusaway-siri/internal/logging"
	"github.com/skywave/onebusaway-siri/internal/metrics"
	"github.com/skywave/onebusaway-siri/internal/pending"
	"github.com/skywave/onebusaway-siri/scheduler"
	"github.com/skywave/onebusaway-siri/types"
)

// Response outcomes recorded by the metrics collector.
const (
	outcomePromoted = "promoted"
	outcomeRejected = "rejected"
	outcomeUnknown  = "unknown"
)

// Manager negotiates subscriptions with remote SIRI producers.
//
// Manager is the main entry point of the library. It handles:
//   - Registering every subscription of an outgoing request as pending
//   - Rejecting ids already bound to a different module type
//   - Matching subscription responses to pending entries
//   - Expiring entries whose response never arrives
//
// Thread Safety:
//   - RegisterBatch, HandleResponse and the expiry tasks may run concurrently
//   - Each pending entry is consumed by exactly one of response handling or expiry
//   - A batch is either fully visible or not visible at all
//
// Testing:
// Pass scheduler.New(clock.NewMock()) through WithScheduler to drive expiry
// deterministically.
type Manager struct {
	cfg        Config
	store      ActiveStore
	correlator Correlator
	scheduler  Scheduler
	sink       EventSink
	metrics    MetricsCollector
	logger     Logger
	now        func() time.Time

	registry *pending.Registry
}

// NewManager creates a new Manager instance with the provided configuration.
//
// Returns a concrete *Manager struct following the "accept interfaces, return structs" principle.
//
// Parameters:
//   - cfg: Configuration (defaults are applied in place)
//   - store: Record of active subscriptions, consulted for conflicts and promoted into
//   - correlator: Derives subscription ids from requests and responses
//   - opts: Optional scheduler, event sink, metrics and logger
//
// Returns:
//   - *Manager: Initialized manager
//   - error: ErrInvalidConfig, ErrActiveStoreRequired or ErrCorrelatorRequired
//
// Example:
//
//	cfg := siri.DefaultConfig()
//	mgr, err := siri.NewManager(&cfg, activestore.NewMemory(), correlation.Default{},
//	    siri.WithLogger(logger),
//	)
func NewManager(cfg *Config, store ActiveStore, correlator Correlator, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if store == nil {
		return nil, ErrActiveStoreRequired
	}
	if correlator == nil {
		return nil, ErrCorrelatorRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	sched := options.scheduler
	if sched == nil {
		sched = scheduler.New(nil)
	}

	sink := options.sink
	if sink == nil {
		sink = events.NewLogSink(loggerInstance)
	}

	now := time.Now
	if c, ok := sched.(interface{ Now() time.Time }); ok {
		now = c.Now
	}

	return &Manager{
		cfg:        *cfg,
		store:      store,
		correlator: correlator,
		scheduler:  sched,
		sink:       sink,
		metrics:    metricsCollector,
		logger:     loggerInstance,
		now:        now,
		registry:   pending.New(),
	}, nil
}

// RegisterBatch records every subscription of an outgoing request as pending.
//
// The whole batch is checked and committed in one step: if any id is already
// bound to a different module type (active, pending, or earlier in the same
// batch) nothing is registered and the conflict is returned. On success one
// expiry task is armed for the committed ids after Config.ResponseTimeout.
//
// Parameters:
//   - req: Transport envelope of the request, stored with each pending entry
//   - doc: Subscription request document
//
// Returns:
//   - error: ErrNilRequest, or a *ConflictError matching ErrModuleTypeConflict
func (m *Manager) RegisterBatch(req *ClientRequest, doc *SubscriptionRequest) error {
	if doc == nil {
		return ErrNilRequest
	}

	m.logger.Debug("register pending subscription request",
		"requestor", doc.RequestorRef,
		"producer", doc.ProducerRef,
	)

	candidates := m.expand(req, doc)

	ids, err := m.registry.Admit(func(lookup pending.Lookup) ([]PendingSubscription, error) {
		return m.stage(candidates, lookup)
	})
	if err != nil {
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			m.metrics.RecordConflict(conflictErr.Source.String())
			m.sink.Report(Event{
				Kind:       EventConflict,
				ID:         conflictErr.ID,
				ModuleType: conflictErr.Requested,
				Conflict:   conflictErr,
			})
		}

		return err
	}

	m.metrics.RecordBatchRegistered(len(ids))
	m.metrics.RecordPendingCount(m.registry.Len())

	if len(ids) == 0 {
		return nil
	}

	task := &expiryTask{manager: m, ids: ids}
	m.scheduler.AfterFunc(m.cfg.ResponseTimeout, task.run)

	return nil
}

// expand turns the request into candidate entries in module-type order.
func (m *Manager) expand(req *ClientRequest, doc *SubscriptionRequest) []PendingSubscription {
	var candidates []PendingSubscription
	for _, moduleType := range types.AllModuleTypes() {
		for _, descriptor := range doc.SubscriptionsFor(moduleType) {
			candidates = append(candidates, PendingSubscription{
				ID:         m.correlator.IDFromRequest(doc, descriptor),
				ModuleType: moduleType,
				Request:    req,
				Descriptor: descriptor,
			})
		}
	}

	return candidates
}

// stage runs under the registry write lock.
func (m *Manager) stage(candidates []PendingSubscription, lookup pending.Lookup) ([]PendingSubscription, error) {
	staged := make(map[SubscriptionID]ModuleType, len(candidates))
	sources := conflict.Sources{
		Active: m.store.ModuleTypeOf,
		Pending: func(id SubscriptionID) (ModuleType, bool) {
			p, ok := lookup(id)
			return p.ModuleType, ok
		},
		Batch: func(id SubscriptionID) (ModuleType, bool) {
			moduleType, ok := staged[id]
			return moduleType, ok
		},
	}

	registeredAt := m.now()
	batch := make([]PendingSubscription, 0, len(candidates))
	for _, c := range candidates {
		if conflictErr := conflict.Check(c.ID, c.ModuleType, sources); conflictErr != nil {
			return nil, conflictErr
		}
		staged[c.ID] = c.ModuleType
		c.RegisteredAt = registeredAt
		batch = append(batch, c)
	}

	return batch, nil
}

// HandleResponse matches each status entry of a subscription response against
// the pending registry.
//
// Accepted entries are promoted into the active store, rejected ones are
// reported as EventRejected, and entries without a pending counterpart are
// reported as EventUnknownResponse. Processing always continues with the next
// status entry. A nil response is ignored.
//
// Parameters:
//   - resp: Subscription response received from the producer
func (m *Manager) HandleResponse(resp *SubscriptionResponse) {
	if resp == nil {
		return
	}

	for i := range resp.ResponseStatus {
		status := resp.ResponseStatus[i]
		id := m.correlator.IDFromStatus(resp, status)

		p, ok := m.registry.Remove(id)
		if !ok {
			m.metrics.RecordResponseStatus(outcomeUnknown)
			m.sink.Report(Event{
				Kind:     EventUnknownResponse,
				ID:       id,
				Response: resp,
				Status:   &status,
			})

			continue
		}

		m.metrics.RecordResponseLatency(m.now().Sub(p.RegisteredAt).Seconds())

		if status.OK() {
			m.store.Promote(resp, status, id, p)
			m.metrics.RecordResponseStatus(outcomePromoted)
			m.logger.Debug("subscription accepted by server",
				"id", id.String(),
				"module", p.ModuleType.String(),
			)

			continue
		}

		m.metrics.RecordResponseStatus(outcomeRejected)
		m.sink.Report(Event{
			Kind:       EventRejected,
			ID:         id,
			ModuleType: p.ModuleType,
			Response:   resp,
			Status:     &status,
			Pending:    &p,
		})
	}

	m.metrics.RecordPendingCount(m.registry.Len())
}

// PendingCount returns the number of subscriptions awaiting a response.
func (m *Manager) PendingCount() int {
	return m.registry.Len()
}

// Pending returns the pending entry for id.
//
// Returns:
//   - PendingSubscription: Copy of the pending entry
//   - bool: false if id is not pending
func (m *Manager) Pending(id SubscriptionID) (PendingSubscription, bool) {
	return m.registry.Get(id)
}

// PendingIDs returns a snapshot of the pending subscription ids in no particular order.
func (m *Manager) PendingIDs() []SubscriptionID {
	return m.registry.IDs()
}
