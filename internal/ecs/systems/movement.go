package systems

import (
	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
)

// Movement applies Physics.Velocity to Transform.Position every fixed
// step: acceleration integrates into velocity, velocity integrates into
// position. An optional boundary-rectangle clamp is exposed as a field
// rather than a constructor parameter, since Go favors zero-value-usable
// structs.
type Movement struct {
	*Base
	Boundary *Rectangle
}

// Rectangle bounds entity positions.
type Rectangle struct {
	X, Y, Width, Height float64
}

// NewMovement returns an unbounded Movement system.
func NewMovement() *Movement {
	return &Movement{Base: NewBase()}
}

// Run integrates acceleration into velocity and velocity into position for
// every entity carrying both Transform and Physics, in FixedSimulation.
func (m *Movement) Run(w *ecs.World, dt float64) {
	defer m.Timed()()

	q := ecs.QueryFor2[components.Transform, components.Physics](w, ecs.Filter{})
	q.Each(func(e ecs.Entity, t *components.Transform, p *components.Physics) {
		if p.IsStatic {
			return
		}
		p.Velocity.X += p.Acceleration.X * dt
		p.Velocity.Y += p.Acceleration.Y * dt

		t.Position.X += p.Velocity.X * dt
		t.Position.Y += p.Velocity.Y * dt

		if m.Boundary != nil {
			clampToBoundary(&t.Position, m.Boundary)
		}
	})
}

func clampToBoundary(pos *components.Vector2, b *Rectangle) {
	if pos.X < b.X {
		pos.X = b.X
	}
	if pos.X > b.X+b.Width {
		pos.X = b.X + b.Width
	}
	if pos.Y < b.Y {
		pos.Y = b.Y
	}
	if pos.Y > b.Y+b.Height {
		pos.Y = b.Y + b.Height
	}
}
