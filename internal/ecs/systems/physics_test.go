package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
)

func TestPhysics_AppliesGravityOnlyWhenEnabled(t *testing.T) {
	w := newTestWorld()
	ph := NewPhysics()
	ph.Gravity = components.Vector2{Y: 10}

	e := w.CreateEntity()
	p := components.NewPhysics()
	p.Gravity = true
	require.NoError(t, ecs.Add(w, e, p))

	ph.Run(w, 1.0)

	got, _ := ecs.Get[components.Physics](w, e)
	assert.Equal(t, 10.0, got.Acceleration.Y)
}

func TestPhysics_IgnoresGravityWhenComponentOptsOut(t *testing.T) {
	w := newTestWorld()
	ph := NewPhysics()
	ph.Gravity = components.Vector2{Y: 10}

	e := w.CreateEntity()
	p := components.NewPhysics()
	p.Gravity = false
	require.NoError(t, ecs.Add(w, e, p))

	ph.Run(w, 1.0)

	got, _ := ecs.Get[components.Physics](w, e)
	assert.Equal(t, 0.0, got.Acceleration.Y)
}

func TestPhysics_FrictionDecaysVelocity(t *testing.T) {
	w := newTestWorld()
	ph := NewPhysics()

	e := w.CreateEntity()
	p := components.NewPhysics()
	p.Velocity = components.Vector2{X: 100}
	p.Friction = 0.5
	require.NoError(t, ecs.Add(w, e, p))

	ph.Run(w, 1.0)

	got, _ := ecs.Get[components.Physics](w, e)
	assert.Equal(t, 50.0, got.Velocity.X)
}

func TestPhysics_ClampsSpeedToMaxSpeed(t *testing.T) {
	w := newTestWorld()
	ph := NewPhysics()

	e := w.CreateEntity()
	p := components.NewPhysics()
	p.Velocity = components.Vector2{X: 300, Y: 0}
	p.MaxSpeed = 100
	require.NoError(t, ecs.Add(w, e, p))

	ph.Run(w, 1.0)

	got, _ := ecs.Get[components.Physics](w, e)
	assert.InDelta(t, 100.0, got.Velocity.X, 0.0001)
}

func TestPhysics_SkipsStaticBodies(t *testing.T) {
	w := newTestWorld()
	ph := NewPhysics()
	ph.Gravity = components.Vector2{Y: 10}

	e := w.CreateEntity()
	p := components.NewPhysics()
	p.IsStatic = true
	p.Gravity = true
	require.NoError(t, ecs.Add(w, e, p))

	ph.Run(w, 1.0)

	got, _ := ecs.Get[components.Physics](w, e)
	assert.Equal(t, 0.0, got.Acceleration.Y)
}
