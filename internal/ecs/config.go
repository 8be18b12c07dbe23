package ecs

import "github.com/google/uuid"

// WorldConfig configures a single world at creation time.
type WorldConfig struct {
	// InitialEntityCapacity pre-sizes the entity allocator's alive bitset
	// and generation array.
	InitialEntityCapacity int
	// InitialPoolBuckets pre-sizes a pool for a type-id before its first
	// write, avoiding the first-write allocation spike.
	InitialPoolBuckets map[ComponentTypeID]int
	// InitialBinderBuckets pre-sizes the binding router's binder map.
	InitialBinderBuckets int
	// WriteFailurePolicy controls how a denied write is surfaced: as an
	// error return, a LogSink line, or silently.
	WriteFailurePolicy WriteFailurePolicy
	// LogSink receives a formatted line whenever WriteFailurePolicy is
	// PolicyLog and a write is denied. Defaults to a no-op when nil.
	LogSink func(format string, args ...any)
}

// DefaultWorldConfig returns sane defaults for a small-to-medium
// simulation.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		InitialEntityCapacity: 1024,
		InitialPoolBuckets:    map[ComponentTypeID]int{},
		InitialBinderBuckets:  256,
		WriteFailurePolicy:    PolicyThrow,
	}
}

// KernelConfig configures a Kernel at creation time.
type KernelConfig struct {
	// NewWorldIDFactory assigns a scope id to worlds created without an
	// explicit id. Defaults to uuid.New.
	NewWorldIDFactory func() WorldID
	// AutoNamePrefix names worlds created without an explicit name as
	// "<prefix><n>".
	AutoNamePrefix string
	// StepOnlyCurrentWhenSelected restricts every tick call to the
	// current world only, when one is selected.
	StepOnlyCurrentWhenSelected bool
	// AutoSelectNewWorld makes CreateWorld set_current on every new world.
	AutoSelectNewWorld bool
}

// DefaultKernelConfig returns sane defaults: uuid-based ids, worlds named
// "world-<n>", ticking affects every registered world.
func DefaultKernelConfig() KernelConfig {
	return KernelConfig{
		NewWorldIDFactory: func() WorldID { return uuid.New() },
		AutoNamePrefix:    "world-",
	}
}
