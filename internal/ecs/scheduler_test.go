package ecs

import "testing"

type recordingSystem struct {
	name *string
	log  *[]string
}

func (s recordingSystem) Run(w *World, dt float64) { *s.log = append(*s.log, *s.name) }

func TestScheduler_OrderAfterIsHonored(t *testing.T) {
	t.Run("TC501: a system ordered after another always runs later", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		var log []string
		nameA, nameB := "a", "b"
		w.AddSystem("b", GroupFixedSimulation, recordingSystem{name: &nameB, log: &log}, OrderAfter("a"))
		w.AddSystem("a", GroupFixedSimulation, recordingSystem{name: &nameA, log: &log})

		w.PumpAndLateFrame(1.0/60, 1.0/60, 1)

		if len(log) != 2 || log[0] != "a" || log[1] != "b" {
			t.Fatalf("expected [a b], got %v", log)
		}
	})
}

func TestScheduler_RequiresInitializedBeforeRunning(t *testing.T) {
	t.Run("TC502: a freshly added system initializes and runs within the same PumpAndLateFrame call", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		ran := 0
		w.AddSystem("s", GroupFixedSimulation, systemFunc(func(*World, float64) { ran++ }))

		w.PumpAndLateFrame(1.0/60, 1.0/60, 1)
		if ran != 1 {
			t.Fatalf("expected the system to run exactly once after init, got %d", ran)
		}
	})
}

func TestScheduler_DisabledSystemIsSkipped(t *testing.T) {
	t.Run("TC503: a disabled system's Run is never called", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		sys := &toggleSystem{}
		w.AddSystem("s", GroupFixedSimulation, sys)
		sys.enabled = false

		w.PumpAndLateFrame(1.0/60, 1.0/60, 1)
		if sys.ran {
			t.Fatalf("expected disabled system to be skipped")
		}
	})
}

func TestScheduler_AddSystemRejectsOrderingCycle(t *testing.T) {
	t.Run("TC505: AddSystem refuses a system whose before/after edges would create a cycle", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		var log []string
		nameA, nameB, nameC := "a", "b", "c"

		if err := w.AddSystem("a", GroupFixedSimulation, recordingSystem{name: &nameA, log: &log}, OrderAfter("b")); err != nil {
			t.Fatalf("unexpected error adding a: %v", err)
		}
		if err := w.AddSystem("b", GroupFixedSimulation, recordingSystem{name: &nameB, log: &log}, OrderAfter("a")); err == nil {
			t.Fatalf("expected AddSystem to reject a<->b cycle")
		}
		if err := w.AddSystem("c", GroupFixedSimulation, recordingSystem{name: &nameC, log: &log}); err != nil {
			t.Fatalf("unexpected error adding an unrelated system: %v", err)
		}

		if _, ok := w.SystemState("b"); ok {
			t.Fatalf("rejected system must not be registered")
		}
	})
}

type toggleSystem struct {
	enabled bool
	ran     bool
}

func (s *toggleSystem) Run(w *World, dt float64) { s.ran = true }
func (s *toggleSystem) Enabled() bool            { return s.enabled }

func TestScheduler_RemoveSystemStopsFutureRuns(t *testing.T) {
	t.Run("TC504: a removed system no longer runs after the next plan build", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		ran := 0
		w.AddSystem("s", GroupFixedSimulation, systemFunc(func(*World, float64) { ran++ }))
		w.PumpAndLateFrame(1.0/60, 1.0/60, 1)

		w.RemoveSystem("s")
		w.PumpAndLateFrame(1.0/60, 1.0/60, 1)

		if ran != 1 {
			t.Fatalf("expected exactly 1 run before removal, got %d", ran)
		}
	})
}
