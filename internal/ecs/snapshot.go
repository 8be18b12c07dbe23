package ecs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// snapshotMagic guards against loading a non-snapshot stream.
const snapshotMagic uint32 = 0x45435331 // "ECS1"

// SnapshotFormatter encodes/decodes one component type's boxed value for
// persistence. Save/load walks the pool repository's boxed surface and
// calls a per-type formatter registered out-of-band, so a caller can plug
// in whatever wire format a component type needs without the snapshot
// writer knowing its concrete Go type. GobFormatter (gobformat.go) is the
// default, stdlib-backed implementation; callers needing a different wire
// format register their own.
type SnapshotFormatter interface {
	Encode(w io.Writer, value any) error
	Decode(r io.Reader) (any, error)
}

// Migration is a post-load hook invoked in ascending Version order after a
// snapshot has been restored.
type Migration struct {
	Version int
	Apply   func(w *World) error
}

// FormatterRegistry holds per-type-id formatters and post-load migrations.
type FormatterRegistry struct {
	formatters map[ComponentTypeID]SnapshotFormatter
	migrations []Migration
}

// NewSnapshotFormatters returns an empty formatter/migration registry. A
// World uses one registry for the lifetime of its snapshot I/O calls.
func NewSnapshotFormatters() *FormatterRegistry {
	return &FormatterRegistry{formatters: map[ComponentTypeID]SnapshotFormatter{}}
}

// Register associates a formatter with typeID.
func (f *FormatterRegistry) Register(typeID ComponentTypeID, formatter SnapshotFormatter) {
	f.formatters[typeID] = formatter
}

// RegisterMigration adds a post-load migration, run in ascending Version
// order regardless of registration order.
func (f *FormatterRegistry) RegisterMigration(m Migration) {
	f.migrations = append(f.migrations, m)
}

func writeUint32(w io.Writer, v uint32) error { return binary.Write(w, binary.LittleEndian, v) }
func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// SaveFullSnapshot writes w's entire state -- every alive entity id and
// generation, the free-id list, the singleton index, and every
// registered-formatter component's data in pool first-write order -- to
// writer. A component type with no registered formatter is silently
// skipped (it is simply absent from the snapshot, recoverable by
// registering a formatter before the next save, not a fatal condition).
func (w *World) SaveFullSnapshot(writer io.Writer, reg *FormatterRegistry) error {
	bw := bufio.NewWriter(writer)

	if err := writeUint32(bw, snapshotMagic); err != nil {
		return errSnapshotFormat(err.Error())
	}

	alive := w.entities.AllEntities()
	sort.Slice(alive, func(i, j int) bool { return alive[i].ID < alive[j].ID })
	if err := writeUint32(bw, uint32(len(alive))); err != nil {
		return errSnapshotFormat(err.Error())
	}
	for _, e := range alive {
		if err := writeUint32(bw, uint32(e.ID)); err != nil {
			return errSnapshotFormat(err.Error())
		}
		if err := writeUint32(bw, uint32(e.Gen)); err != nil {
			return errSnapshotFormat(err.Error())
		}
	}

	if err := writeUint32(bw, uint32(len(w.entities.freeIDs))); err != nil {
		return errSnapshotFormat(err.Error())
	}
	for _, id := range w.entities.freeIDs {
		if err := writeUint32(bw, uint32(id)); err != nil {
			return errSnapshotFormat(err.Error())
		}
	}

	pools := w.repo.orderedPools()
	var withFormatter []BoxedPool
	for _, p := range pools {
		if _, ok := reg.formatters[p.TypeID()]; ok {
			withFormatter = append(withFormatter, p)
		}
	}
	if err := writeUint32(bw, uint32(len(withFormatter))); err != nil {
		return errSnapshotFormat(err.Error())
	}
	for _, p := range withFormatter {
		formatter := reg.formatters[p.TypeID()]
		ids := p.EnumerateIDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		if err := writeUint32(bw, uint32(p.TypeID())); err != nil {
			return errSnapshotFormat(err.Error())
		}
		if err := writeUint32(bw, uint32(len(ids))); err != nil {
			return errSnapshotFormat(err.Error())
		}
		for _, id := range ids {
			value, _ := p.GetBoxed(id)
			if err := writeUint32(bw, uint32(id)); err != nil {
				return errSnapshotFormat(err.Error())
			}
			if err := formatter.Encode(bw, value); err != nil {
				return errSnapshotFormat(fmt.Sprintf("encode type %d entity %d: %v", p.TypeID(), id, err))
			}
		}
	}

	singletonTypeIDs := make([]ComponentTypeID, 0, len(w.singletons.owner))
	for id := range w.singletons.owner {
		singletonTypeIDs = append(singletonTypeIDs, id)
	}
	sort.Slice(singletonTypeIDs, func(i, j int) bool { return singletonTypeIDs[i] < singletonTypeIDs[j] })
	if err := writeUint32(bw, uint32(len(singletonTypeIDs))); err != nil {
		return errSnapshotFormat(err.Error())
	}
	for _, id := range singletonTypeIDs {
		owner := w.singletons.owner[id]
		if err := writeUint32(bw, uint32(id)); err != nil {
			return errSnapshotFormat(err.Error())
		}
		if err := writeUint32(bw, uint32(owner.ID)); err != nil {
			return errSnapshotFormat(err.Error())
		}
		if err := writeUint32(bw, uint32(owner.Gen)); err != nil {
			return errSnapshotFormat(err.Error())
		}
	}

	return bw.Flush()
}

// LoadFullSnapshot clears w, then restores entity ids/generations, the
// free-id list, registered-formatter component data, and the singleton
// index from reader. Every component type-id found in the stream must
// have a registered formatter and factory, or the load fails
// with SnapshotFormat. After restore, every registered migration runs in
// ascending Version order.
func (w *World) LoadFullSnapshot(reader io.Reader, reg *FormatterRegistry) error {
	br := bufio.NewReader(reader)

	magic, err := readUint32(br)
	if err != nil || magic != snapshotMagic {
		return errSnapshotFormat("missing or mismatched snapshot magic header")
	}

	w.Reset(false)

	aliveCount, err := readUint32(br)
	if err != nil {
		return errSnapshotFormat(err.Error())
	}
	maxID := EntityID(0)
	type aliveRec struct {
		id  EntityID
		gen uint16
	}
	records := make([]aliveRec, 0, aliveCount)
	for i := uint32(0); i < aliveCount; i++ {
		idRaw, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		genRaw, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		id := EntityID(idRaw)
		records = append(records, aliveRec{id: id, gen: uint16(genRaw)})
		if id > maxID {
			maxID = id
		}
	}

	freeCount, err := readUint32(br)
	if err != nil {
		return errSnapshotFormat(err.Error())
	}
	freeIDs := make([]EntityID, 0, freeCount)
	for i := uint32(0); i < freeCount; i++ {
		idRaw, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		id := EntityID(idRaw)
		freeIDs = append(freeIDs, id)
		if id > maxID {
			maxID = id
		}
	}

	w.entities.ensureGenSlot(maxID)
	for _, rec := range records {
		w.entities.ensureGenSlot(rec.id)
		w.entities.alive.Set(uint32(rec.id))
		w.entities.generation[rec.id] = rec.gen
		w.entities.aliveCount++
	}
	w.entities.freeIDs = freeIDs
	if maxID+1 > w.entities.nextID {
		w.entities.nextID = maxID + 1
	}

	typeCount, err := readUint32(br)
	if err != nil {
		return errSnapshotFormat(err.Error())
	}
	for i := uint32(0); i < typeCount; i++ {
		typeIDRaw, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		typeID := ComponentTypeID(typeIDRaw)
		formatter, ok := reg.formatters[typeID]
		if !ok {
			return errSnapshotFormat(fmt.Sprintf("no formatter registered for component type %d", typeID))
		}
		pool, err := w.repo.getOrCreateByType(typeID)
		if err != nil {
			return err
		}
		count, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		for j := uint32(0); j < count; j++ {
			idRaw, err := readUint32(br)
			if err != nil {
				return errSnapshotFormat(err.Error())
			}
			value, err := formatter.Decode(br)
			if err != nil {
				return errSnapshotFormat(fmt.Sprintf("decode type %d entity %d: %v", typeID, idRaw, err))
			}
			if err := pool.SetBoxed(EntityID(idRaw), value); err != nil {
				return err
			}
		}
	}

	singletonCount, err := readUint32(br)
	if err != nil {
		return errSnapshotFormat(err.Error())
	}
	for i := uint32(0); i < singletonCount; i++ {
		typeIDRaw, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		ownerID, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		ownerGen, err := readUint32(br)
		if err != nil {
			return errSnapshotFormat(err.Error())
		}
		typeID := ComponentTypeID(typeIDRaw)
		w.singletons.mark(typeID)
		w.singletons.setOwner(typeID, Entity{ID: EntityID(ownerID), Gen: uint16(ownerGen)})
	}

	sort.Slice(reg.migrations, func(i, j int) bool { return reg.migrations[i].Version < reg.migrations[j].Version })
	for _, m := range reg.migrations {
		if err := m.Apply(w); err != nil {
			return err
		}
	}

	return nil
}
