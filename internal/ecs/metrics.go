package ecs

import (
	"sort"
	"sync"
	"time"
)

// SystemMetrics tracks per-system execution timing: count, total/average/
// min/max duration, and the timestamp of the last run.
type SystemMetrics struct {
	ExecutionCount int64
	TotalTime      time.Duration
	AverageTime    time.Duration
	MaxTime        time.Duration
	MinTime        time.Duration
	LastExecution  time.Time
}

func (m *SystemMetrics) record(elapsed time.Duration) {
	m.ExecutionCount++
	m.TotalTime += elapsed
	m.AverageTime = m.TotalTime / time.Duration(m.ExecutionCount)
	if elapsed > m.MaxTime {
		m.MaxTime = elapsed
	}
	if m.MinTime == 0 || elapsed < m.MinTime {
		m.MinTime = elapsed
	}
	m.LastExecution = time.Now()
}

// WorldMetrics aggregates pool population and timing samples for a world
// as named sample series, so a caller can compute percentiles or averages
// over whatever it chooses to record without the world knowing the shape
// of any particular metric.
type WorldMetrics struct {
	mu      sync.Mutex
	samples map[string][]float64
}

func newWorldMetrics() *WorldMetrics {
	return &WorldMetrics{samples: map[string][]float64{}}
}

// Record appends a timing/count sample under name.
func (m *WorldMetrics) Record(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[name] = append(m.samples[name], value)
	if len(m.samples[name]) > 10000 {
		m.samples[name] = m.samples[name][len(m.samples[name])-10000:]
	}
}

// Percentile returns the p-th percentile (0..1) of name's recorded
// samples, or 0 if none have been recorded.
func (m *WorldMetrics) Percentile(name string, p float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := append([]float64(nil), m.samples[name]...)
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	idx := p * float64(len(values)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(values) {
		return values[lower]
	}
	weight := idx - float64(lower)
	return values[lower]*(1-weight) + values[upper]*weight
}
