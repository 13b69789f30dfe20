package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods are called from request, response and timer goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	RegistrationMetrics
	ResponseMetrics
	ExpiryMetrics
}

// RegistrationMetrics defines metrics for batch registration.
type RegistrationMetrics interface {
	// RecordBatchRegistered records a committed batch.
	//
	// Parameters:
	//   - size: Number of pending subscriptions committed
	RecordBatchRegistered(size int)

	// RecordConflict records a batch rejected because of a module type conflict.
	//
	// Parameters:
	//   - source: Conflict source ("active", "pending", "batch")
	RecordConflict(source string)

	// RecordPendingCount sets the current number of pending subscriptions (gauge metric).
	// The count is sampled after each operation, so under concurrency the value is approximate.
	RecordPendingCount(count int)
}

// ResponseMetrics defines metrics for subscription response handling.
type ResponseMetrics interface {
	// RecordResponseStatus records the outcome of one status entry.
	//
	// Parameters:
	//   - outcome: "promoted", "rejected" or "unknown"
	RecordResponseStatus(outcome string)

	// RecordResponseLatency records the time between registration and response.
	//
	// Parameters:
	//   - seconds: Latency in seconds
	RecordResponseLatency(seconds float64)
}

// ExpiryMetrics defines metrics for the response-timeout sweep.
type ExpiryMetrics interface {
	// RecordExpired records pending subscriptions removed by an expiry sweep.
	//
	// Parameters:
	//   - count: Number of entries that expired (may be 0)
	RecordExpired(count int)
}
