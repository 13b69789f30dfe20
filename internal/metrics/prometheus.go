package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skywave/onebusaway-siri/types"
)

const subsystem = "subscriptions"

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	batchesRegistered prometheus.Counter
	batchSize         prometheus.Histogram
	conflicts         *prometheus.CounterVec
	pendingGauge      prometheus.Gauge
	responseStatus    *prometheus.CounterVec
	responseLatency   prometheus.Histogram
	expired           prometheus.Counter
	expirySweeps      prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "siri" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "siri"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.batchesRegistered = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "batches_registered_total",
			Help:      "Total subscription batches admitted into the pending registry.",
		})

		p.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Number of pending subscriptions per admitted batch.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		})

		p.conflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "conflicts_total",
			Help:      "Batches rejected because of a module type conflict, by source (active,pending,batch).",
		}, []string{"source"})

		p.pendingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "pending",
			Help:      "Current number of subscriptions awaiting a producer response.",
		})

		p.responseStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "response_status_total",
			Help:      "Response status entries by outcome (promoted,rejected,unknown).",
		}, []string{"outcome"})

		p.responseLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "response_latency_seconds",
			Help:      "Time between batch registration and the matching response status.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		})

		p.expired = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "expired_total",
			Help:      "Pending subscriptions removed because no response arrived in time.",
		})

		p.expirySweeps = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: subsystem,
			Name:      "expiry_sweeps_total",
			Help:      "Expiry tasks executed.",
		})

		p.reg.MustRegister(p.batchesRegistered)
		p.reg.MustRegister(p.batchSize)
		p.reg.MustRegister(p.conflicts)
		p.reg.MustRegister(p.pendingGauge)
		p.reg.MustRegister(p.responseStatus)
		p.reg.MustRegister(p.responseLatency)
		p.reg.MustRegister(p.expired)
		p.reg.MustRegister(p.expirySweeps)
	})
}

// RecordBatchRegistered counts an admitted batch and observes its size.
func (p *PrometheusCollector) RecordBatchRegistered(size int) {
	p.ensureRegistered()
	p.batchesRegistered.Inc()
	p.batchSize.Observe(float64(size))
}

// RecordConflict increments the conflict counter for source.
func (p *PrometheusCollector) RecordConflict(source string) {
	p.ensureRegistered()
	p.conflicts.WithLabelValues(source).Inc()
}

// RecordPendingCount sets the pending gauge.
func (p *PrometheusCollector) RecordPendingCount(count int) {
	p.ensureRegistered()
	p.pendingGauge.Set(float64(count))
}

// RecordResponseStatus increments the response outcome counter.
func (p *PrometheusCollector) RecordResponseStatus(outcome string) {
	p.ensureRegistered()
	p.responseStatus.WithLabelValues(outcome).Inc()
}

// RecordResponseLatency observes registration-to-response latency.
func (p *PrometheusCollector) RecordResponseLatency(seconds float64) {
	p.ensureRegistered()
	p.responseLatency.Observe(seconds)
}

// RecordExpired counts one sweep and the entries it expired.
func (p *PrometheusCollector) RecordExpired(count int) {
	p.ensureRegistered()
	p.expirySweeps.Inc()
	p.expired.Add(float64(count))
}
