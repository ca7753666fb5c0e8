package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	req := require.New(t)

	req.Equal("abc", NewRequestID("abc"))
	generated := NewRequestID("")
	req.Len(generated, 36)
	req.NotEqual(generated, NewRequestID(""))
}

func TestRequestIDFromContext(t *testing.T) {
	req := require.New(t)

	req.Empty(RequestIDFromContext(context.Background()))
	req.Equal("abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}

func TestMonitoringManager_Snapshot(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager()

	mm.IncrTurns()
	mm.IncrTurns()
	mm.IncrFallbacks()
	mm.IncrConflicts()
	mm.IncrPersistenceFailures()
	mm.ObserveModelCall(10 * time.Millisecond)
	mm.ObserveModelCall(30 * time.Millisecond)

	stats := mm.Snapshot()
	req.Equal(uint64(2), stats.Turns)
	req.Equal(uint64(1), stats.Fallbacks)
	req.Equal(uint64(1), stats.Conflicts)
	req.Equal(uint64(1), stats.PersistenceFailures)
	req.InDelta(20.0, stats.AvgModelLatencyMs, 0.001)
}
