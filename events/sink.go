// Package events provides EventSink implementations for the subscription manager.
package events

import (
	"github.com/skywave/onebusaway-siri/types"
)

// LogSink writes each event as one structured log record.
//
// Every kind is logged at warn level; none of them stops processing.
type LogSink struct {
	logger types.Logger
}

// Compile-time assertion that LogSink implements EventSink.
var _ types.EventSink = (*LogSink)(nil)

// NewLogSink creates a sink that reports through logger.
func NewLogSink(logger types.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Report implements types.EventSink.
func (s *LogSink) Report(e types.Event) {
	switch e.Kind {
	case types.EventConflict:
		s.reportConflict(e)
	case types.EventUnknownResponse:
		s.logger.Warn("subscription response for unknown subscription",
			"id", e.ID.String(),
			"responder", responder(e.Response),
		)
	case types.EventRejected:
		kind, desc := errorCondition(e.Status)
		s.logger.Warn("subscription rejected by server",
			"id", e.ID.String(),
			"module", e.ModuleType.String(),
			"responder", responder(e.Response),
			"errorKind", kind,
			"errorDescription", desc,
		)
	case types.EventExpired:
		s.logger.Warn("pending subscription expired before receiving a subscription response from server",
			"id", e.ID.String(),
			"module", e.ModuleType.String(),
		)
	default:
		s.logger.Warn("unrecognized subscription event", "kind", int(e.Kind), "id", e.ID.String())
	}
}

func (s *LogSink) reportConflict(e types.Event) {
	if e.Conflict == nil {
		s.logger.Warn("subscription module type conflict", "id", e.ID.String())
		return
	}

	msg := "pending subscription has a different module type"
	if e.Conflict.Source == types.SourceActive {
		msg = "active subscription has a different module type"
	}
	s.logger.Warn(msg,
		"id", e.Conflict.ID.String(),
		"source", e.Conflict.Source.String(),
		"existingModule", e.Conflict.Existing.String(),
		"requestedModule", e.Conflict.Requested.String(),
	)
}

func responder(resp *types.SubscriptionResponse) string {
	if resp == nil {
		return ""
	}

	return resp.ResponderRef
}

func errorCondition(status *types.StatusEntry) (string, string) {
	if status == nil || status.ErrorCondition == nil {
		return "", ""
	}

	return status.ErrorCondition.Kind, status.ErrorCondition.Description
}

// Multi fans an event out to several sinks in order. Nil sinks are skipped.
type Multi []types.EventSink

// Report implements types.EventSink.
func (m Multi) Report(e types.Event) {
	for _, s := range m {
		if s != nil {
			s.Report(e)
		}
	}
}
