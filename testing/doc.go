// Package testing provides test utilities for the SIRI subscription client.
//
// It follows Go's convention of shipping test helpers in a dedicated package
// (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - Connect: Additional client connection, e.g. for a simulated producer
//   - CreateJetStreamKV: Memory-backed KV bucket
//   - EventRecorder: EventSink that keeps every reported event
//   - NewTestLogger: Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    siritest "github.com/skywave/onebusaway-siri/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := siritest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
