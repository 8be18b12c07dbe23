// Package storage holds the low-level dense/sparse index structures shared
// by every component pool. It knows nothing about component values or
// entity generations; it only tracks which uint32 keys are present and at
// which dense-array position.
package storage

// SparseSet tracks membership of uint32 keys (entity ids) and their
// position in a parallel dense array. Add/Remove/Contains are O(1); Remove
// swaps the removed key with the last dense slot so the dense array never
// has holes.
type SparseSet struct {
	sparse []int32 // keyed by id; -1 means absent
	dense  []uint32
}

const absent int32 = -1

// NewSparseSet returns an empty set pre-sized for capacity ids.
func NewSparseSet(capacity int) *SparseSet {
	return &SparseSet{
		sparse: make([]int32, 0, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

func (s *SparseSet) ensure(id uint32) {
	if int(id) < len(s.sparse) {
		return
	}
	grown := len(s.sparse)
	if grown == 0 {
		grown = 1
	}
	for grown <= int(id) {
		grown *= 2
	}
	next := make([]int32, grown)
	copy(next, s.sparse)
	for i := len(s.sparse); i < grown; i++ {
		next[i] = absent
	}
	s.sparse = next
}

// Contains reports whether id is present.
func (s *SparseSet) Contains(id uint32) bool {
	if int(id) >= len(s.sparse) {
		return false
	}
	return s.sparse[id] != absent
}

// Index returns the dense-array position of id, or false if absent.
func (s *SparseSet) Index(id uint32) (int, bool) {
	if int(id) >= len(s.sparse) || s.sparse[id] == absent {
		return 0, false
	}
	return int(s.sparse[id]), true
}

// Add inserts id, returning its dense index and whether it was newly added.
func (s *SparseSet) Add(id uint32) (int, bool) {
	s.ensure(id)
	if s.sparse[id] != absent {
		return int(s.sparse[id]), false
	}
	idx := len(s.dense)
	s.dense = append(s.dense, id)
	s.sparse[id] = int32(idx)
	return idx, true
}

// Remove deletes id, returning the dense index that now holds the moved
// tail element (or -1 if nothing moved) and whether id had been present.
func (s *SparseSet) Remove(id uint32) (movedFromIndex int, movedID uint32, ok bool) {
	if !s.Contains(id) {
		return -1, 0, false
	}
	idx := s.sparse[id]
	last := len(s.dense) - 1
	lastID := s.dense[last]
	s.dense[idx] = lastID
	s.sparse[lastID] = idx
	s.dense = s.dense[:last]
	s.sparse[id] = absent
	if int(idx) == last {
		return -1, 0, true
	}
	return int(idx), lastID, true
}

// Len returns the population count.
func (s *SparseSet) Len() int { return len(s.dense) }

// Dense returns the live backing slice of present ids in dense order. The
// caller must not mutate it; it is reused across calls (zero-allocation
// iteration support).
func (s *SparseSet) Dense() []uint32 { return s.dense }

// Clear empties the set without releasing the sparse backing array.
func (s *SparseSet) Clear() {
	for _, id := range s.dense {
		s.sparse[id] = absent
	}
	s.dense = s.dense[:0]
}

// Reserve grows the sparse index to cover at least capacity ids.
func (s *SparseSet) Reserve(capacity int) {
	if capacity > 0 {
		s.ensure(uint32(capacity - 1))
	}
}
