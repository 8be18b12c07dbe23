package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase_StartsEnabled(t *testing.T) {
	b := NewBase()
	assert.True(t, b.Enabled())
}

func TestBase_SetEnabledToggles(t *testing.T) {
	b := NewBase()
	b.SetEnabled(false)
	assert.False(t, b.Enabled())
	b.SetEnabled(true)
	assert.True(t, b.Enabled())
}

func TestBase_TimedAccumulatesMetrics(t *testing.T) {
	b := NewBase()
	func() {
		defer b.Timed()()
	}()
	func() {
		defer b.Timed()()
	}()

	m := b.Metrics()
	assert.Equal(t, int64(2), m.ExecutionCount)
	assert.False(t, m.LastExecution.IsZero())
}
