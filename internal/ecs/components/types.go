// Package components holds the plain-struct component types: Transform,
// Physics, Health, Sprite, AI, Audio. A component is just a value placed
// in a dense array by the generic Pool[T] in package ecs, so these are
// kept as plain data with validation logic attached as write-policy
// validators in register.go instead of interface methods.
package components

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X float64
	Y float64
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vector2
	Max Vector2
}

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Transform holds position, rotation, and scale. Parent/child relationships
// are intentionally not tracked here via pointers: a generational Pool[T]
// relocates values on every structural change (swap-compaction), making raw
// pointers into pool storage unsafe. Hierarchy should instead be expressed
// as a Parent ecs.Entity reference, resolved through the world rather than
// through this struct.
type Transform struct {
	Position Vector2
	Rotation float64
	Scale    Vector2
}

// NewTransform returns a Transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Scale: Vector2{X: 1, Y: 1}}
}

// Physics holds linear-motion state for an entity.
type Physics struct {
	Velocity     Vector2
	Acceleration Vector2
	Mass         float64
	Friction     float64
	Gravity      bool
	IsStatic     bool
	MaxSpeed     float64
}

// NewPhysics returns unit mass with effectively unbounded max speed.
func NewPhysics() Physics {
	return Physics{Mass: 1.0, MaxSpeed: 10000.0}
}

// StatusType names a status-effect kind.
type StatusType int

// StatusEffect is a timed status applied to an entity.
type StatusEffect struct {
	Type     StatusType
	Duration float64
}

// Health holds hit points, shield, and active status effects. There is
// deliberately no time.Time-stamped "last damage" field: a side-effecting
// timestamp set at damage-application time has no place on a pure data
// value. Systems that need a damage timestamp should publish a DamageTaken
// message instead, see messages.go.
type Health struct {
	CurrentHealth    int
	MaxHealth        int
	Shield           int
	IsInvincible     bool
	RegenerationRate float64
	StatusEffects    []StatusEffect
}

// NewHealth returns full health at maxHealth.
func NewHealth(maxHealth int) Health {
	return Health{CurrentHealth: maxHealth, MaxHealth: maxHealth}
}

// Sprite holds everything the rendering system needs to draw an entity.
type Sprite struct {
	TextureID  string
	SourceRect AABB
	Color      Color
	ZOrder     int
	Visible    bool
	FlipX      bool
	FlipY      bool
}

// NewSprite returns an opaque-white, visible sprite.
func NewSprite() Sprite {
	return Sprite{Color: Color{R: 255, G: 255, B: 255, A: 255}, Visible: true}
}

// AIState names a behavior-tree/state-machine state for the AI component.
type AIState int

const (
	AIStateIdle AIState = iota
	AIStatePatrolling
	AIStateChasing
	AIStateAttacking
)

// AI holds minimal steering/behavior state.
type AI struct {
	State       AIState
	TargetValid bool
	Target      Vector2
	Speed       float64
}

// Audio holds a one-shot or looping sound request.
type Audio struct {
	ClipID  string
	Volume  float64
	Loop    bool
	Playing bool
}

// NewAudio returns a silent, non-looping audio component at full volume.
func NewAudio() Audio {
	return Audio{Volume: 1.0}
}
