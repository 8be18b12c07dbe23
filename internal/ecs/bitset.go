package ecs

import "math/bits"

// bitset is a growable bit vector used for the entity allocator's
// alive-set (pools track presence with storage.SparseSet). Unlike a fixed-width word, it grows to cover
// an arbitrary entity id space rather than capping out at 64 bits.
type bitset struct {
	words []uint64
}

func newBitset(initialCapacity int) *bitset {
	words := (initialCapacity + 63) / 64
	return &bitset{words: make([]uint64, words)}
}

func (b *bitset) ensure(i uint32) {
	need := int(i)/64 + 1
	if need <= len(b.words) {
		return
	}
	grown := len(b.words)
	if grown == 0 {
		grown = 1
	}
	for grown < need {
		grown *= 2
	}
	next := make([]uint64, grown)
	copy(next, b.words)
	b.words = next
}

func (b *bitset) Set(i uint32) {
	b.ensure(i)
	b.words[i/64] |= 1 << (i % 64)
}

func (b *bitset) Clear(i uint32) {
	if int(i)/64 >= len(b.words) {
		return
	}
	b.words[i/64] &^= 1 << (i % 64)
}

func (b *bitset) Has(i uint32) bool {
	if int(i)/64 >= len(b.words) {
		return false
	}
	return b.words[i/64]&(1<<(i%64)) != 0
}

// PopCount returns the number of set bits.
func (b *bitset) PopCount() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Reset clears every bit without releasing the backing array.
func (b *bitset) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// ForEach invokes fn for every set bit, in ascending index order.
func (b *bitset) ForEach(fn func(i uint32)) {
	for wordIdx, w := range b.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			fn(uint32(wordIdx*64 + bit))
			w &= w - 1
		}
	}
}
