package replica

import (
	"github.com/go-kit/kit/metrics"
	"github.com/hiddenmemory/crdt/crdt"
)

// Structs

// Metrics bundles the counters a replica reports to.
// Each counter has to accept a "replica" label.
type Metrics struct {
	Inserts      metrics.Counter
	NovelInserts metrics.Counter
	Applies      metrics.Counter
	Merges       metrics.Counter
}

type metricsService[T comparable] struct {
	service      Service[T]
	inserts      metrics.Counter
	novelInserts metrics.Counter
	applies      metrics.Counter
	merges       metrics.Counter
}

// Functions

// NewMetricsService wraps a provided existing service
// so that every mutation is counted in m, labeled with
// the replica's name.
func NewMetricsService[T comparable](s Service[T], m *Metrics) Service[T] {

	name := s.Name()

	return &metricsService[T]{
		service:      s,
		inserts:      m.Inserts.With("replica", name),
		novelInserts: m.NovelInserts.With("replica", name),
		applies:      m.Applies.With("replica", name),
		merges:       m.Merges.With("replica", name),
	}
}

func (s *metricsService[T]) Name() string {
	return s.service.Name()
}

func (s *metricsService[T]) Insert(e T) (crdt.GSetOp[T], bool) {

	op, novel := s.service.Insert(e)

	s.inserts.Add(1)
	if novel {
		s.novelInserts.Add(1)
	}

	return op, novel
}

func (s *metricsService[T]) Apply(op crdt.GSetOp[T]) {

	s.service.Apply(op)
	s.applies.Add(1)
}

func (s *metricsService[T]) Merge(snapshot *crdt.GSet[T]) {

	s.service.Merge(snapshot)
	s.merges.Add(1)
}

func (s *metricsService[T]) Snapshot() *crdt.GSet[T] {
	return s.service.Snapshot()
}

func (s *metricsService[T]) Contains(e T) bool {
	return s.service.Contains(e)
}

func (s *metricsService[T]) Len() int {
	return s.service.Len()
}
