package testing

import (
	"testing"

	"github.com/skywave/onebusaway-siri/internal/logger"
	"github.com/skywave/onebusaway-siri/types"
)

// NewTestLogger creates a new logger instance that writes to the testing.T logger.
// This is useful for seeing log output during test runs.
func NewTestLogger(t testing.TB) types.Logger {
	return logger.NewTest(t)
}
