/*
Package crdt implements the replication contract shared by all convergent
replicated data types (CRDTs) of this module together with its simplest
instance, the grow-only set (GSet).

Every CRDT offers two equivalent ways of reconciling replicas:
* state-based: a full replica snapshot is folded into another one via Merge,
* operation-based: a single operation record is folded in via Apply.

Merge is idempotent, commutative and associative, i.e. it is the join of a
join-semilattice. Apply is idempotent per operation. Replicas that observed
the same insertions therefore converge to an identical state, no matter in
which order, how often or how late operations and snapshots arrive.

CAUTION! Access to the types this package provides is expected to be
synchronized explicitly by some outside measures, e.g. by wrapping calls
with a mutex lock if concurrent access to one replica is possible. This
package does not(!) synchronize access by itself. Package replica provides
such a wrapper.

The GSet follows the specification by Shapiro, Preguiça, Baquero and
Zawirski, available under: https://hal.inria.fr/inria-00555588/document
*/
package crdt
