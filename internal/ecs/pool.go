package ecs

import (
	"unsafe"

	"ecsruntime/internal/ecs/storage"
)

// PoolStats reports population/capacity figures for debug and snapshot
// tooling.
type PoolStats struct {
	TypeID   ComponentTypeID
	TypeName string
	Count    int
	Capacity int
}

// BoxedPool is the runtime-type-erased view over a typed Pool[T], giving
// the repository, snapshot I/O, and editor-style tooling a uniform surface
// without needing a type parameter.
type BoxedPool interface {
	TypeID() ComponentTypeID
	Has(id EntityID) bool
	GetBoxed(id EntityID) (any, bool)
	SetBoxed(id EntityID, value any) error
	Remove(id EntityID, clearData bool) bool
	EnumerateIDs() []EntityID
	Count() int
	ClearAll()
	Stats() PoolStats
}

// Pool is the per-type dense store for component values: a packed value
// array indexed by the storage.SparseSet's dense position (not by entity
// id), kept hole-free by swap-with-last removal, never shrinking its
// backing array. Built on generics so
// typed Get/Ref calls need no runtime type assertion on the hot path.
type Pool[T any] struct {
	typeID    ComponentTypeID
	set       *storage.SparseSet
	dense     []T
	singleton bool
}

func newPool[T any](typeID ComponentTypeID, initialCapacity int) *Pool[T] {
	return &Pool[T]{
		typeID: typeID,
		set:    storage.NewSparseSet(initialCapacity),
		dense:  make([]T, 0, initialCapacity),
	}
}

func (p *Pool[T]) TypeID() ComponentTypeID { return p.typeID }

// Has reports presence without reading the value.
func (p *Pool[T]) Has(id EntityID) bool { return p.set.Contains(uint32(id)) }

// Ref returns a mutable pointer to id's slot, creating a zero-value slot
// first if absent.
func (p *Pool[T]) Ref(id EntityID) *T {
	idx, added := p.set.Add(uint32(id))
	if added {
		var zero T
		p.dense = append(p.dense, zero)
	}
	return &p.dense[idx]
}

// RefExisting returns a mutable pointer to id's slot, or MissingComponent
// if id has no value in this pool.
func (p *Pool[T]) RefExisting(id EntityID) (*T, error) {
	idx, ok := p.set.Index(uint32(id))
	if !ok {
		return nil, errMissingComponent(Entity{ID: id}, p.typeID)
	}
	return &p.dense[idx], nil
}

// Get returns a copy of id's value and whether it was present.
func (p *Pool[T]) Get(id EntityID) (T, bool) {
	idx, ok := p.set.Index(uint32(id))
	if !ok {
		var zero T
		return zero, false
	}
	return p.dense[idx], true
}

// Set writes value into id's slot, creating it if absent.
func (p *Pool[T]) Set(id EntityID, value T) {
	idx, added := p.set.Add(uint32(id))
	if added {
		p.dense = append(p.dense, value)
		return
	}
	p.dense[idx] = value
}

// Remove deletes id's slot. When clearData is true the vacated dense slot
// (after the swap-with-last compaction) is zeroed so it cannot leak a
// stale value through a dangling Ref.
func (p *Pool[T]) Remove(id EntityID, clearData bool) bool {
	movedIdx, _, ok := p.set.Remove(uint32(id))
	if !ok {
		return false
	}
	if movedIdx >= 0 {
		p.dense[movedIdx] = p.dense[len(p.dense)-1]
	}
	last := len(p.dense) - 1
	if clearData {
		var zero T
		p.dense[last] = zero
	}
	p.dense = p.dense[:last]
	return true
}

// GetBoxed is the any-erased counterpart of Get.
func (p *Pool[T]) GetBoxed(id EntityID) (any, bool) { return p.Get(id) }

// SetBoxed is the any-erased counterpart of Set; it fails if value is not
// assignable to T.
func (p *Pool[T]) SetBoxed(id EntityID, value any) error {
	typed, ok := value.(T)
	if !ok {
		return newComponentError(ErrValidationFailed, Entity{ID: id}, p.typeID, "boxed value has the wrong concrete type")
	}
	p.Set(id, typed)
	return nil
}

// EnumerateIDs returns the dense id slice backing this pool, reinterpreted
// from the sparse set's []uint32 storage to []EntityID without copying, so
// Each/ToSpan iteration stays allocation-free. EntityID's underlying type
// is uint32 and the two share identical memory layout, so this reinterpret
// is safe.
func (p *Pool[T]) EnumerateIDs() []EntityID {
	raw := p.set.Dense()
	if len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*EntityID)(unsafe.Pointer(&raw[0])), len(raw))
}

func (p *Pool[T]) Count() int { return p.set.Len() }

func (p *Pool[T]) ClearAll() {
	p.set.Clear()
	p.dense = p.dense[:0]
}

func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{TypeID: p.typeID, TypeName: TypeName(p.typeID), Count: p.set.Len(), Capacity: cap(p.dense)}
}
