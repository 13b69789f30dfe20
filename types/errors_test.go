package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfig,
			ErrActiveStoreRequired,
			ErrCorrelatorRequired,
			ErrNilRequest,
			ErrModuleTypeConflict,
			ErrNATSConnectionRequired,
			ErrConnectivity,
			ErrAlreadyListening,
			ErrClosed,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i != j {
					require.False(t, errors.Is(err1, err2), "%v should not match %v", err1, err2)
				}
			}
		}
	})
}

func TestConflictError(t *testing.T) {
	id := SubscriptionID{Server: "srv", Subscriber: "me", Subscription: "7"}
	err := &ConflictError{
		ID:        id,
		Existing:  ModuleStopMonitoring,
		Requested: ModuleVehicleMonitoring,
		Source:    SourceActive,
	}

	t.Run("matches sentinel", func(t *testing.T) {
		require.ErrorIs(t, err, ErrModuleTypeConflict)
		require.NotErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("register batch: %w", err)
		require.ErrorIs(t, wrapped, ErrModuleTypeConflict)

		var ce *ConflictError
		require.ErrorAs(t, wrapped, &ce)
		require.Equal(t, id, ce.ID)
		require.Equal(t, ModuleStopMonitoring, ce.Existing)
		require.Equal(t, ModuleVehicleMonitoring, ce.Requested)
	})

	t.Run("message names id and both module types", func(t *testing.T) {
		msg := err.Error()
		require.Contains(t, msg, id.String())
		require.Contains(t, msg, "StopMonitoring")
		require.Contains(t, msg, "VehicleMonitoring")
		require.Contains(t, msg, "active")
	})
}

func TestConflictSourceString(t *testing.T) {
	require.Equal(t, "active", SourceActive.String())
	require.Equal(t, "pending", SourcePending.String())
	require.Equal(t, "batch", SourceBatch.String())
	require.Equal(t, "unknown", ConflictSource(0).String())
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "conflict", EventConflict.String())
	require.Equal(t, "unknown_response", EventUnknownResponse.String())
	require.Equal(t, "rejected", EventRejected.String())
	require.Equal(t, "expired", EventExpired.String())
	require.Equal(t, "unknown", EventKind(0).String())

	var got Event
	sink := EventSinkFunc(func(e Event) { got = e })
	sink.Report(Event{Kind: EventExpired})
	require.Equal(t, EventExpired, got.Kind)
}
