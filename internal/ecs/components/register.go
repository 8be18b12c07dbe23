package components

import "ecsruntime/internal/ecs"

// RegisterValidators installs per-component invariant checks as typed
// write-policy validators -- the idiomatic-Go rendition of a per-component
// Validate() interface method: validation is routed through the world's
// write policy rather than through the component type itself, so a
// component stays a plain data struct.
func RegisterValidators(w *ecs.World) {
	ecs.RegisterTypedValidator(w, func(t *Transform) bool {
		return t.Scale.X != 0 && t.Scale.Y != 0
	})
	ecs.RegisterTypedValidator(w, func(p *Physics) bool {
		return p.Mass >= 0 && p.Friction >= 0 && p.MaxSpeed >= 0
	})
	ecs.RegisterTypedValidator(w, func(h *Health) bool {
		return h.CurrentHealth >= 0 && h.MaxHealth > 0 && h.Shield >= 0 && h.RegenerationRate >= 0
	})
	ecs.RegisterTypedValidator(w, func(s *Sprite) bool {
		return s.SourceRect.Max.X >= s.SourceRect.Min.X && s.SourceRect.Max.Y >= s.SourceRect.Min.Y
	})
}

// RegisterFactories pre-registers every component type's pool factory on
// w, so a name-based write from the scripting bridge can materialize a
// pool it has only ever seen as a string.
func RegisterFactories(w *ecs.World) {
	ecs.EnsureComponentType[Transform](w)
	ecs.EnsureComponentType[Physics](w)
	ecs.EnsureComponentType[Health](w)
	ecs.EnsureComponentType[Sprite](w)
	ecs.EnsureComponentType[AI](w)
	ecs.EnsureComponentType[Audio](w)
}

// RegisterSnapshotFormatters installs gob-backed SnapshotFormatters for
// every component type in this package, so a world exercising only these
// six components can round-trip via SaveFullSnapshot/LoadFullSnapshot out
// of the box.
func RegisterSnapshotFormatters(reg *ecs.FormatterRegistry) {
	reg.Register(ecs.TypeIDFor[Transform](), ecs.GobFormatter[Transform]{})
	reg.Register(ecs.TypeIDFor[Physics](), ecs.GobFormatter[Physics]{})
	reg.Register(ecs.TypeIDFor[Health](), ecs.GobFormatter[Health]{})
	reg.Register(ecs.TypeIDFor[Sprite](), ecs.GobFormatter[Sprite]{})
	reg.Register(ecs.TypeIDFor[AI](), ecs.GobFormatter[AI]{})
	reg.Register(ecs.TypeIDFor[Audio](), ecs.GobFormatter[Audio]{})
}
