package siri

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	scheduler Scheduler
	sink      EventSink
	metrics   MetricsCollector
	logger    Logger
}

// WithScheduler sets the timer facility used to arm expiry tasks.
//
// Defaults to scheduler.New(nil), which runs on the wall clock.
//
// Example:
//
//	mock := clock.NewMock()
//	mgr, _ := siri.NewManager(&cfg, store, correlation.Default{}, siri.WithScheduler(scheduler.New(mock)))
func WithScheduler(s Scheduler) Option {
	return func(o *managerOptions) {
		o.scheduler = s
	}
}

// WithEventSink sets the sink receiving conflict, unknown-response, rejected and
// expired events.
//
// The default sink logs every event through the configured Logger. A custom
// sink replaces it; combine both with events.Multi to keep the log records.
//
// Example:
//
//	sink := events.Multi{events.NewLogSink(logger), auditSink}
//	mgr, _ := siri.NewManager(&cfg, store, correlator, siri.WithEventSink(sink))
func WithEventSink(sink EventSink) Option {
	return func(o *managerOptions) {
		o.sink = sink
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "siri")
//	mgr, _ := siri.NewManager(&cfg, store, correlator, siri.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Example:
//
//	mgr, _ := siri.NewManager(&cfg, store, correlator, siri.WithLogger(logging.NewSlogDefault()))
func WithLogger(logger Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}
