// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/skywave/onebusaway-siri/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the Manager default when no collector is configured.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RegistrationMetrics implementation

// RecordBatchRegistered discards the batch size metric.
func (n *NopMetrics) RecordBatchRegistered(_ /* size */ int) {}

// RecordConflict discards the conflict metric.
func (n *NopMetrics) RecordConflict(_ /* source */ string) {}

// RecordPendingCount discards the pending gauge.
func (n *NopMetrics) RecordPendingCount(_ /* count */ int) {}

// ResponseMetrics implementation

// RecordResponseStatus discards the response outcome metric.
func (n *NopMetrics) RecordResponseStatus(_ /* outcome */ string) {}

// RecordResponseLatency discards the response latency metric.
func (n *NopMetrics) RecordResponseLatency(_ /* seconds */ float64) {}

// ExpiryMetrics implementation

// RecordExpired discards the expiry metric.
func (n *NopMetrics) RecordExpired(_ /* count */ int) {}
