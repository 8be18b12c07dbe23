package ecs

import (
	"bytes"
	"testing"
)

type wtTransform struct{ X, Y float64 }
type wtVelocity struct{ X, Y float64 }
type wtHealth struct{ HP int }

func TestWorld_CreateAddQuery(t *testing.T) {
	t.Run("TC101: create, add, query round trip", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		e := w.CreateEntity()
		if err := Add(w, e, wtTransform{X: 1, Y: 2}); err != nil {
			t.Fatalf("unexpected error adding transform: %v", err)
		}
		if err := Add(w, e, wtVelocity{X: 3, Y: 4}); err != nil {
			t.Fatalf("unexpected error adding velocity: %v", err)
		}

		seen := 0
		QueryFor2[wtTransform, wtVelocity](w, Filter{}).Each(func(got Entity, tr *wtTransform, v *wtVelocity) {
			seen++
			if got != e {
				t.Fatalf("expected entity %v, got %v", e, got)
			}
			if tr.X != 1 || v.X != 3 {
				t.Fatalf("unexpected component values: %+v %+v", tr, v)
			}
		})
		if seen != 1 {
			t.Fatalf("expected exactly 1 match, got %d", seen)
		}
	})
}

func TestWorld_DestroyAndRecycle(t *testing.T) {
	t.Run("TC102: destroying an entity drops it from every pool and query", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		e := w.CreateEntity()
		_ = Add(w, e, wtHealth{HP: 10})

		if !w.DestroyEntity(e) {
			t.Fatalf("expected destroy of a live entity to report true")
		}
		if Has[wtHealth](w, e) {
			t.Fatalf("expected stale handle to report no component")
		}

		count := 0
		QueryFor1[wtHealth](w, Filter{}).Each(func(Entity, *wtHealth) { count++ })
		if count != 0 {
			t.Fatalf("expected query to yield nothing after destroy, got %d", count)
		}

		e2 := w.CreateEntity()
		if e2.ID != e.ID {
			t.Fatalf("expected recycled id")
		}
		if w.IsAlive(e) {
			t.Fatalf("stale handle must remain dead even after its id is recycled")
		}
		if !w.IsAlive(e2) {
			t.Fatalf("recycled handle must be alive")
		}
	})
}

func TestWorld_SingletonViolation(t *testing.T) {
	t.Run("TC103: a second owner of a singleton is always rejected", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		MarkSingleton[wtHealth](w)

		a := w.CreateEntity()
		b := w.CreateEntity()

		if err := SetSingleton(w, a, wtHealth{HP: 100}); err != nil {
			t.Fatalf("unexpected error claiming singleton: %v", err)
		}
		err := SetSingleton(w, b, wtHealth{HP: 50})
		if err == nil {
			t.Fatalf("expected singleton violation for second owner")
		}
		ecsErr, ok := err.(*ECSError)
		if !ok || ecsErr.Code != ErrSingletonViolation {
			t.Fatalf("expected SingletonViolation, got %v", err)
		}
	})

	t.Run("TC104: SingletonViolation is never silenced by WriteFailurePolicy", func(t *testing.T) {
		cfg := DefaultWorldConfig()
		cfg.WriteFailurePolicy = PolicySilent
		w := NewWorld(cfg, WorldScope{Name: "w"})
		MarkSingleton[wtHealth](w)

		a := w.CreateEntity()
		b := w.CreateEntity()
		_ = SetSingleton(w, a, wtHealth{HP: 1})
		if err := SetSingleton(w, b, wtHealth{HP: 1}); err == nil {
			t.Fatalf("expected singleton violation even under PolicySilent")
		}
	})
}

func TestWorld_FixedStepAccumulator(t *testing.T) {
	t.Run("TC105: h=1/60, dt=0.05, max=4, 3 calls yields 9 total fixed steps", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		h := 1.0 / 60.0
		dt := 0.05
		var total uint64
		for i := 0; i < 3; i++ {
			before := w.FixedFrameCount()
			w.PumpAndLateFrame(dt, h, 4)
			total += w.FixedFrameCount() - before
		}
		if total != 9 {
			t.Fatalf("expected 9 total fixed steps across 3 calls, got %d", total)
		}
	})
}

func TestWorld_PhaseDeniesStructuralWriteInFrameUI(t *testing.T) {
	t.Run("TC106: a structural write attempted from FrameUI is denied", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		e := w.CreateEntity()

		w.AddSystem("ui-writer", GroupFrameUI, systemFunc(func(world *World, alpha float64) {
			if err := Add(world, e, wtHealth{HP: 1}); err == nil {
				t.Fatalf("expected FrameUI structural write to be denied")
			}
		}))

		w.PumpAndLateFrame(1.0/60, 1.0/60, 4)
		if Has[wtHealth](w, e) {
			t.Fatalf("FrameUI write must not have taken effect")
		}
	})
}

func TestWorld_SnapshotRoundTrip(t *testing.T) {
	t.Run("TC107: save/load preserves entities, components, and a reused free id", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		reg := NewSnapshotFormatters()
		reg.Register(TypeIDFor[wtHealth](), GobFormatter[wtHealth]{})

		keep := w.CreateEntity()
		_ = Add(w, keep, wtHealth{HP: 42})
		doomed := w.CreateEntity()
		w.DestroyEntity(doomed)

		var buf bytes.Buffer
		if err := w.SaveFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		w2 := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w2"})
		if err := w2.LoadFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if !w2.IsAlive(keep) {
			t.Fatalf("expected restored entity to be alive")
		}
		v, ok := Get[wtHealth](w2, keep)
		if !ok || v.HP != 42 {
			t.Fatalf("expected restored component value 42, got %+v ok=%v", v, ok)
		}

		recycled := w2.CreateEntity()
		if recycled.ID != doomed.ID {
			t.Fatalf("expected the freed id to be the next one handed out, got %d want %d", recycled.ID, doomed.ID)
		}
	})
}

// systemFunc adapts a plain function to the System interface for tests
// that only need Run.
type systemFunc func(w *World, dt float64)

func (f systemFunc) Run(w *World, dt float64) { f(w, dt) }
