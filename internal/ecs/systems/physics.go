package systems

import (
	"math"

	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
)

// Physics applies gravity and friction to every non-static Physics
// component, and clamps speed to MaxSpeed. There is no collider/collision
// bookkeeping here -- collision detection is out of scope for this
// package.
type Physics struct {
	*Base
	Gravity components.Vector2
}

// NewPhysics returns a Physics system with zero gravity.
func NewPhysics() *Physics {
	return &Physics{Base: NewBase()}
}

// Run applies gravity, friction, and the speed cap to every Physics
// component, in FixedSimulation (it must run before Movement integrates
// velocity into position; cmd/demo declares this by registering movement
// with ecs.OrderAfter("physics")).
func (ph *Physics) Run(w *ecs.World, dt float64) {
	defer ph.Timed()()

	q := ecs.QueryFor1[components.Physics](w, ecs.Filter{})
	q.Each(func(e ecs.Entity, p *components.Physics) {
		if p.IsStatic {
			return
		}
		if p.Gravity {
			p.Acceleration.X += ph.Gravity.X
			p.Acceleration.Y += ph.Gravity.Y
		}
		if p.Friction > 0 {
			factor := 1.0 - p.Friction*dt
			if factor < 0 {
				factor = 0
			}
			p.Velocity.X *= factor
			p.Velocity.Y *= factor
		}
		if p.MaxSpeed > 0 {
			speed := math.Hypot(p.Velocity.X, p.Velocity.Y)
			if speed > p.MaxSpeed {
				scale := p.MaxSpeed / speed
				p.Velocity.X *= scale
				p.Velocity.Y *= scale
			}
		}
	})
}
