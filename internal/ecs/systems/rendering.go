package systems

import (
	"sort"

	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
)

// Camera describes the view a Rendering system draws relative to.
type Camera struct {
	Position components.Vector2
	Zoom     float64
	Rotation float64
}

// Renderable is a snapshot of one entity's draw data, collected then
// z-sorted before the host loop draws it. It holds value copies of
// Transform/Sprite rather than pointers into pool storage, since those
// pointers would dangle across the next structural write.
type Renderable struct {
	Entity    ecs.Entity
	Transform components.Transform
	Sprite    components.Sprite
}

// Rendering collects every visible (Transform, Sprite) entity into a
// z-ordered draw list during FrameView. It does not draw anything itself
// -- the host loop's own render step owns drawing, so this system only
// produces the list the host loop reads back out via DrawList() afterward.
type Rendering struct {
	*Base
	Cam      Camera
	drawList []Renderable
}

// NewRendering returns a Rendering system with an identity camera.
func NewRendering() *Rendering {
	return &Rendering{Base: NewBase(), Cam: Camera{Zoom: 1.0}}
}

// Run gathers every visible entity into a fresh, z-ordered draw list.
func (r *Rendering) Run(w *ecs.World, dt float64) {
	defer r.Timed()()

	list := r.drawList[:0]
	q := ecs.QueryFor2[components.Transform, components.Sprite](w, ecs.Filter{})
	q.Each(func(e ecs.Entity, t *components.Transform, s *components.Sprite) {
		if !s.Visible {
			return
		}
		list = append(list, Renderable{Entity: e, Transform: *t, Sprite: *s})
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Sprite.ZOrder < list[j].Sprite.ZOrder })
	r.drawList = list
}

// DrawList returns the most recently collected, z-ordered draw list.
func (r *Rendering) DrawList() []Renderable { return r.drawList }
