package crdt

import (
	"fmt"
)

// Structs

// GSetOp represents the broadcast op-based update message
// of a grow-only set: the insertion of exactly one element.
// It is a detached value without any reference to the set
// that generated it and may therefore be copied, delayed,
// stored and re-applied freely.
type GSetOp[T comparable] struct {
	element T
}

// Functions

// NewGSetOp returns the insert operation carrying e. It is
// meant for layers that transport operations and need to
// rebuild them on the receiving side.
func NewGSetOp[T comparable](e T) GSetOp[T] {
	return GSetOp[T]{element: e}
}

// Element returns the inserted element.
func (op GSetOp[T]) Element() T {
	return op.element
}

// Equal reports whether both operations carry equal elements.
func (op GSetOp[T]) Equal(other GSetOp[T]) bool {
	return op.element == other.element
}

func (op GSetOp[T]) String() string {
	return fmt.Sprintf("insert(%v)", op.element)
}
