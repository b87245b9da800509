package crdt

// Interfaces

// Merger is implemented by replicated types that can
// fold the full state of another replica into their own.
type Merger[S any] interface {

	// Merge folds other into the receiver. It must be
	// idempotent, commutative and associative and it
	// never fails.
	Merge(other S)
}

// Applier is implemented by replicated types that can
// fold single update operations into their state.
type Applier[Op any] interface {

	// Apply folds op, generated at some replica, into the
	// receiver. Applying the same operation more than once
	// has the effect of applying it once. It never fails.
	Apply(op Op)
}

// CRDT defines what a convergent replicated data type
// has to provide. S is the concrete state type exchanged
// between replicas for state-based replication, Op the
// operation record emitted by local updates for
// operation-based replication. Both ways must lead to
// the same state given the same distinct updates.
type CRDT[S any, Op any] interface {
	Merger[S]
	Applier[Op]
}

// Functions

// ApplyAll applies all supplied operations to c
// in the order they are passed.
func ApplyAll[C Applier[Op], Op any](c C, ops ...Op) {

	for _, op := range ops {
		c.Apply(op)
	}
}

// MergeAll merges all supplied replica states into c.
func MergeAll[C Merger[S], S any](c C, others ...S) {

	for _, other := range others {
		c.Merge(other)
	}
}
