package observability

import (
	"sync/atomic"
	"time"
)

// TurnStats is a point in time copy of the turn counters.
type TurnStats struct {
	Turns               uint64  `json:"turns"`
	Fallbacks           uint64  `json:"fallbacks"`
	PersistenceFailures uint64  `json:"persistence_failures"`
	Conflicts           uint64  `json:"conflicts"`
	AvgModelLatencyMs   float64 `json:"avg_model_latency_ms"`
	UptimeSeconds       int64   `json:"uptime_seconds"`
}

// MonitoringManager counts turn outcomes. Safe for concurrent use.
type MonitoringManager struct {
	startedAt           time.Time
	turns               atomic.Uint64
	fallbacks           atomic.Uint64
	persistenceFailures atomic.Uint64
	conflicts           atomic.Uint64
	modelCalls          atomic.Uint64
	modelLatencyNanos   atomic.Int64
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{startedAt: time.Now()}
}

func (mm *MonitoringManager) IncrTurns() {
	mm.turns.Add(1)
}

func (mm *MonitoringManager) IncrFallbacks() {
	mm.fallbacks.Add(1)
}

func (mm *MonitoringManager) IncrPersistenceFailures() {
	mm.persistenceFailures.Add(1)
}

func (mm *MonitoringManager) IncrConflicts() {
	mm.conflicts.Add(1)
}

// ObserveModelCall records the latency of one upstream call, failed or not.
func (mm *MonitoringManager) ObserveModelCall(d time.Duration) {
	mm.modelCalls.Add(1)
	mm.modelLatencyNanos.Add(d.Nanoseconds())
}

func (mm *MonitoringManager) Snapshot() TurnStats {
	stats := TurnStats{
		Turns:               mm.turns.Load(),
		Fallbacks:           mm.fallbacks.Load(),
		PersistenceFailures: mm.persistenceFailures.Load(),
		Conflicts:           mm.conflicts.Load(),
		UptimeSeconds:       int64(time.Since(mm.startedAt).Seconds()),
	}
	if calls := mm.modelCalls.Load(); calls > 0 {
		stats.AvgModelLatencyMs = float64(mm.modelLatencyNanos.Load()) / float64(calls) / float64(time.Millisecond)
	}
	return stats
}
