package ecs

import (
	"encoding/gob"
	"io"
)

// GobFormatter is a generic SnapshotFormatter backed by encoding/gob: the
// default codec for any component type that doesn't need a tighter
// hand-rolled wire format. A hot component with a fixed, predictable
// layout can implement SnapshotFormatter directly instead.
type GobFormatter[T any] struct{}

func (GobFormatter[T]) Encode(w io.Writer, value any) error {
	typed := value.(T)
	return gob.NewEncoder(w).Encode(&typed)
}

func (GobFormatter[T]) Decode(r io.Reader) (any, error) {
	var typed T
	if err := gob.NewDecoder(r).Decode(&typed); err != nil {
		return nil, err
	}
	return typed, nil
}
