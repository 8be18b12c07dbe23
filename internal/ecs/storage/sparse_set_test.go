package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSet_AddContainsRemove(t *testing.T) {
	s := NewSparseSet(4)

	idx, added := s.Add(7)
	require.True(t, added)
	assert.Equal(t, 0, idx)
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(3))
	assert.Equal(t, 1, s.Len())

	_, added = s.Add(7)
	assert.False(t, added, "re-adding an existing id is a no-op")

	s.Add(9)
	s.Add(11)
	assert.Equal(t, 3, s.Len())

	movedIdx, movedID, ok := s.Remove(7)
	require.True(t, ok)
	assert.Equal(t, 0, movedIdx, "removing the first element should pull the last into its slot")
	assert.Equal(t, uint32(11), movedID)
	assert.False(t, s.Contains(7))
	assert.Equal(t, 2, s.Len())

	_, _, ok = s.Remove(7)
	assert.False(t, ok, "removing an absent id reports not-ok")
}

func TestSparseSet_DenseStaysCompact(t *testing.T) {
	s := NewSparseSet(0)
	for _, id := range []uint32{2, 5, 8, 100} {
		s.Add(id)
	}
	assert.Equal(t, 4, s.Len())
	s.Remove(5)
	for i, id := range s.Dense() {
		gotIdx, ok := s.Index(id)
		require.True(t, ok)
		assert.Equal(t, i, gotIdx)
	}
}

func TestSparseSet_Clear(t *testing.T) {
	s := NewSparseSet(4)
	s.Add(1)
	s.Add(2)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(1))
	idx, added := s.Add(1)
	assert.True(t, added)
	assert.Equal(t, 0, idx)
}
