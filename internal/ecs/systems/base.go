// Package systems holds the movement/physics/rendering/audio systems, each
// implementing the scheduler's Run(w, dt) contract plus whichever of the
// optional Initializer/Shutdowner/Enabler interfaces it needs (see
// ecs/scheduler.go), and each declaring its component filter inline via
// the generic QueryFor1/QueryFor2 iterators rather than a runtime-string
// query builder.
package systems

import (
	"sync"
	"time"

	"ecsruntime/internal/ecs"
)

// Base gives a system enable/disable state and execution metrics -- the
// common bookkeeping every concrete system embeds instead of
// reimplementing, since systems here declare their component filter
// inline in Run rather than through a separate interface method.
type Base struct {
	mu      sync.RWMutex
	enabled bool
	metrics ecs.SystemMetrics
}

// NewBase returns an enabled Base.
func NewBase() *Base { return &Base{enabled: true} }

func (b *Base) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

func (b *Base) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

func (b *Base) Metrics() ecs.SystemMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

// Timed starts a timer and returns a func that records the elapsed time
// into the system's metrics.
// Call this at the top of Run via `defer b.Timed()()`.
func (b *Base) Timed() func() {
	start := time.Now()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		elapsed := time.Since(start)
		b.metrics.ExecutionCount++
		b.metrics.TotalTime += elapsed
		b.metrics.AverageTime = b.metrics.TotalTime / time.Duration(b.metrics.ExecutionCount)
		if elapsed > b.metrics.MaxTime {
			b.metrics.MaxTime = elapsed
		}
		if b.metrics.MinTime == 0 || elapsed < b.metrics.MinTime {
			b.metrics.MinTime = elapsed
		}
		b.metrics.LastExecution = start
	}
}
