package ecs

import (
	"bytes"
	"testing"
)

type snapPos struct{ X, Y int }

func TestSnapshot_MissingFormatterFailsLoad(t *testing.T) {
	t.Run("TC701: loading a stream referencing an unregistered type-id fails", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		saveReg := NewSnapshotFormatters()
		saveReg.Register(TypeIDFor[snapPos](), GobFormatter[snapPos]{})

		e := w.CreateEntity()
		_ = Add(w, e, snapPos{X: 1, Y: 2})

		var buf bytes.Buffer
		if err := w.SaveFullSnapshot(&buf, saveReg); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		w2 := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w2"})
		emptyReg := NewSnapshotFormatters()
		if err := w2.LoadFullSnapshot(&buf, emptyReg); err == nil {
			t.Fatalf("expected load to fail without a registered formatter")
		}
	})
}

func TestSnapshot_MigrationsRunInAscendingVersionOrder(t *testing.T) {
	t.Run("TC702: migrations apply in ascending version order regardless of registration order", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		reg := NewSnapshotFormatters()
		reg.Register(TypeIDFor[snapPos](), GobFormatter[snapPos]{})

		var buf bytes.Buffer
		if err := w.SaveFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		var order []int
		reg.RegisterMigration(Migration{Version: 2, Apply: func(*World) error {
			order = append(order, 2)
			return nil
		}})
		reg.RegisterMigration(Migration{Version: 1, Apply: func(*World) error {
			order = append(order, 1)
			return nil
		}})

		w2 := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w2"})
		if err := w2.LoadFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Fatalf("expected migrations to run [1 2], got %v", order)
		}
	})
}

func TestSnapshot_PreservesMultipleComponentsAndSingleton(t *testing.T) {
	t.Run("TC703: a singleton owner survives a save/load round trip", func(t *testing.T) {
		w := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w"})
		MarkSingleton[snapPos](w)
		reg := NewSnapshotFormatters()
		reg.Register(TypeIDFor[snapPos](), GobFormatter[snapPos]{})

		owner := w.CreateEntity()
		_ = SetSingleton(w, owner, snapPos{X: 5, Y: 6})

		var buf bytes.Buffer
		if err := w.SaveFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		w2 := NewWorld(DefaultWorldConfig(), WorldScope{Name: "w2"})
		MarkSingleton[snapPos](w2)
		if err := w2.LoadFullSnapshot(&buf, reg); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		gotOwner, val, ok := GetSingleton[snapPos](w2)
		if !ok || gotOwner != owner || val.X != 5 {
			t.Fatalf("expected restored singleton owner=%v val.X=5, got owner=%v val=%+v ok=%v", owner, gotOwner, val, ok)
		}
	})
}
