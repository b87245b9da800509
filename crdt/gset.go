package crdt

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Structs

// GSet conforms to the specification of a grow-only set
// defined by Shapiro, Preguiça, Baquero and Zawirski. Its
// only mutation is insertion, so the set only ever grows.
// The zero value is an empty set ready to use.
type GSet[T comparable] struct {
	elements mapset.Set[T]
}

// Functions

// NewGSet returns a new grow-only set holding the
// supplied elements, or an empty one if none are passed.
func NewGSet[T comparable](elements ...T) *GSet[T] {

	return &GSet[T]{
		elements: mapset.NewThreadUnsafeSet[T](elements...),
	}
}

// set returns the backing container of s and allocates
// it on first write access to a zero value GSet.
func (s *GSet[T]) set() mapset.Set[T] {

	if s.elements == nil {
		s.elements = mapset.NewThreadUnsafeSet[T]()
	}

	return s.elements
}

// empty reports whether s holds no elements. Zero value
// and nil sets are empty without a backing container, so
// reads on them answer without touching or allocating it.
func (s *GSet[T]) empty() bool {
	return s == nil || s.elements == nil || s.elements.Cardinality() == 0
}

// Insert adds element e to the set. If e was not present
// before, the returned operation carries e and the boolean
// is true: the insertion was novel and should be broadcast
// to all other replicas. Otherwise the zero operation and
// false are returned and nothing needs to be sent.
func (s *GSet[T]) Insert(e T) (GSetOp[T], bool) {

	if !s.set().Add(e) {
		return GSetOp[T]{}, false
	}

	return GSetOp[T]{element: e}, true
}

// Len returns the number of elements in the set.
func (s *GSet[T]) Len() int {

	if s.empty() {
		return 0
	}

	return s.elements.Cardinality()
}

// Contains returns true if e is an element of the set.
func (s *GSet[T]) Contains(e T) bool {
	return !s.empty() && s.elements.Contains(e)
}

// IsEmpty returns true if the set holds no elements.
func (s *GSet[T]) IsEmpty() bool {
	return s.empty()
}

// IsSubset returns true if every element of s is
// also an element of other.
func (s *GSet[T]) IsSubset(other *GSet[T]) bool {

	switch {
	case s.empty():
		return true
	case other.empty():
		return false
	default:
		return s.elements.IsSubset(other.elements)
	}
}

// IsDisjoint returns true if s and other have
// no element in common.
func (s *GSet[T]) IsDisjoint(other *GSet[T]) bool {

	if s.empty() || other.empty() {
		return true
	}

	small, large := s.elements, other.elements
	if small.Cardinality() > large.Cardinality() {
		small, large = large, small
	}

	disjoint := true

	small.Each(func(e T) bool {

		if large.Contains(e) {
			disjoint = false
		}

		// Returning true stops the iteration.
		return !disjoint
	})

	return disjoint
}

// Merge folds the full state of replica other into s by
// computing the set union in place. It is used to perform
// state-based replication. other is left untouched.
func (s *GSet[T]) Merge(other *GSet[T]) {

	if s == other || other.empty() {
		return
	}

	dst := s.set()

	other.elements.Each(func(e T) bool {
		dst.Add(e)
		return false
	})
}

// Apply inserts the element carried by op into s. It is
// used to perform operation-based replication. Whether the
// element was novel is irrelevant on the receiving side,
// which makes applying an operation idempotent.
func (s *GSet[T]) Apply(op GSetOp[T]) {
	s.Insert(op.element)
}

// Equal returns true if s and other hold exactly the
// same elements, independent of how they got there.
func (s *GSet[T]) Equal(other *GSet[T]) bool {

	if s.empty() || other.empty() {
		return s.empty() && other.empty()
	}

	return s.elements.Equal(other.elements)
}

// Compare orders s and other by set inclusion. Sets of
// which neither includes the other are Incomparable.
func (s *GSet[T]) Compare(other *GSet[T]) Ordering {

	switch {
	case s.Equal(other):
		return Equal
	case s.IsSubset(other):
		return Less
	case other.IsSubset(s):
		return Greater
	default:
		return Incomparable
	}
}

// Clone returns a deep copy of s that shares
// no state with the original.
func (s *GSet[T]) Clone() *GSet[T] {

	if s.empty() {
		return NewGSet[T]()
	}

	return &GSet[T]{
		elements: s.elements.Clone(),
	}
}

// Elements returns a snapshot of all elements
// in the set in no particular order.
func (s *GSet[T]) Elements() []T {

	if s.empty() {
		return []T{}
	}

	return s.elements.ToSlice()
}

func (s *GSet[T]) String() string {
	return fmt.Sprintf("GSet%v", s.Elements())
}

// Compile-time proof that GSet fulfills the replication contract.
var _ CRDT[*GSet[string], GSetOp[string]] = (*GSet[string])(nil)
