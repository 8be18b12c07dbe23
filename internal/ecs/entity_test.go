package ecs

import "testing"

func TestEntityAllocator_CreateDestroyRecycle(t *testing.T) {
	t.Run("TC001: create sets alive and bumps alive count", func(t *testing.T) {
		a := newEntityAllocator(4)
		e := a.Create()
		if !a.IsAlive(e) {
			t.Fatalf("expected newly created entity to be alive")
		}
		if a.AliveCount() != 1 {
			t.Fatalf("expected alive count 1, got %d", a.AliveCount())
		}
	})

	t.Run("TC002: destroy clears liveness", func(t *testing.T) {
		a := newEntityAllocator(4)
		e := a.Create()
		if !a.Destroy(e) {
			t.Fatalf("expected destroy of a live entity to report true")
		}
		if a.IsAlive(e) {
			t.Fatalf("expected destroyed entity to be dead")
		}
		if a.AliveCount() != 0 {
			t.Fatalf("expected alive count 0, got %d", a.AliveCount())
		}
	})

	t.Run("TC003: destroy on dead entity is a no-op", func(t *testing.T) {
		a := newEntityAllocator(4)
		e := a.Create()
		a.Destroy(e)
		if a.Destroy(e) {
			t.Fatalf("expected second destroy to report false")
		}
	})

	t.Run("TC004: destroy+recycle bumps generation and reuses id", func(t *testing.T) {
		a := newEntityAllocator(4)
		e1 := a.Create()
		a.Destroy(e1)
		e2 := a.Create()
		if e1.ID != e2.ID {
			t.Fatalf("expected recycled id, e1=%d e2=%d", e1.ID, e2.ID)
		}
		if e1.Gen == e2.Gen {
			t.Fatalf("expected generation to change across recycle")
		}
		if a.IsAlive(e1) {
			t.Fatalf("stale handle e1 must not be alive")
		}
		if !a.IsAlive(e2) {
			t.Fatalf("recycled handle e2 must be alive")
		}
	})

	t.Run("TC005: generation monotonicity across repeated recycles", func(t *testing.T) {
		a := newEntityAllocator(4)
		e := a.Create()
		prevGen := e.Gen
		for i := 0; i < 5; i++ {
			a.Destroy(e)
			e = a.Create()
			if e.Gen == prevGen {
				t.Fatalf("expected generation to advance on each recycle")
			}
			prevGen = e.Gen
		}
	})

	t.Run("TC006: all_entities returns a read-only snapshot", func(t *testing.T) {
		a := newEntityAllocator(4)
		e1 := a.Create()
		e2 := a.Create()
		all := a.AllEntities()
		if len(all) != 2 {
			t.Fatalf("expected 2 alive entities, got %d", len(all))
		}
		found1, found2 := false, false
		for _, e := range all {
			if e == e1 {
				found1 = true
			}
			if e == e2 {
				found2 = true
			}
		}
		if !found1 || !found2 {
			t.Fatalf("expected snapshot to contain both entities")
		}
	})

	t.Run("TC007: reset invalidates prior handles even with keepCapacity", func(t *testing.T) {
		a := newEntityAllocator(4)
		e1 := a.Create()
		a.Reset(true)
		if a.IsAlive(e1) {
			t.Fatalf("expected pre-reset handle to be invalid")
		}
		if a.AliveCount() != 0 {
			t.Fatalf("expected alive count 0 after reset")
		}
		e2 := a.Create()
		if !a.IsAlive(e2) {
			t.Fatalf("expected allocator to be usable after reset")
		}
	})

	t.Run("TC008: reset without keepCapacity also invalidates prior handles", func(t *testing.T) {
		a := newEntityAllocator(4)
		e1 := a.Create()
		a.Reset(false)
		if a.IsAlive(e1) {
			t.Fatalf("expected pre-reset handle to be invalid")
		}
	})
}
