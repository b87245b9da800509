package replica

import (
	"sync"

	"github.com/hiddenmemory/crdt/crdt"
)

// Structs

type service[T comparable] struct {
	lock *sync.RWMutex
	name string
	set  *crdt.GSet[T]
}

// Interfaces

// Service defines the interface one replica of
// a grow-only set provides to its process.
type Service[T comparable] interface {

	// Name returns the identifier of this replica.
	Name() string

	// Insert adds an element locally. The returned operation
	// is only valid and worth broadcasting to all other
	// replicas if the boolean is true.
	Insert(e T) (crdt.GSetOp[T], bool)

	// Apply incorporates an operation received from
	// another replica. Duplicates are harmless.
	Apply(op crdt.GSetOp[T])

	// Merge incorporates the full state snapshot
	// of another replica.
	Merge(snapshot *crdt.GSet[T])

	// Snapshot returns a copy of the current state that
	// can be handed to other replicas without sharing
	// any mutable state with this one.
	Snapshot() *crdt.GSet[T]

	// Contains reports whether e has been observed.
	Contains(e T) bool

	// Len returns the number of observed elements.
	Len() int
}

// Functions

// NewService returns an empty replica called name.
func NewService[T comparable](name string) Service[T] {

	return &service[T]{
		lock: new(sync.RWMutex),
		name: name,
		set:  crdt.NewGSet[T](),
	}
}

func (s *service[T]) Name() string {
	return s.name
}

func (s *service[T]) Insert(e T) (crdt.GSetOp[T], bool) {

	s.lock.Lock()
	defer s.lock.Unlock()

	return s.set.Insert(e)
}

func (s *service[T]) Apply(op crdt.GSetOp[T]) {

	s.lock.Lock()
	defer s.lock.Unlock()

	s.set.Apply(op)
}

func (s *service[T]) Merge(snapshot *crdt.GSet[T]) {

	s.lock.Lock()
	defer s.lock.Unlock()

	s.set.Merge(snapshot)
}

func (s *service[T]) Snapshot() *crdt.GSet[T] {

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.set.Clone()
}

func (s *service[T]) Contains(e T) bool {

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.set.Contains(e)
}

func (s *service[T]) Len() int {

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.set.Len()
}

// Replicas take part in replication like the sets they wrap.
var _ crdt.CRDT[*crdt.GSet[string], crdt.GSetOp[string]] = (Service[string])(nil)
