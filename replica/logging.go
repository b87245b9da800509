package replica

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hiddenmemory/crdt/crdt"
)

// Structs

type loggingService[T comparable] struct {
	logger  log.Logger
	service Service[T]
}

// Functions

// NewLoggingService wraps a provided existing
// service with the provided logger.
func NewLoggingService[T comparable](s Service[T], logger log.Logger) Service[T] {

	return &loggingService[T]{
		logger:  log.With(logger, "replica", s.Name()),
		service: s,
	}
}

func (s *loggingService[T]) Name() string {
	return s.service.Name()
}

// Insert wraps this service's Insert method
// with added logging capabilities.
func (s *loggingService[T]) Insert(e T) (crdt.GSetOp[T], bool) {

	op, novel := s.service.Insert(e)

	level.Debug(s.logger).Log(
		"method", "INSERT",
		"element", e,
		"novel", novel,
		"len", s.service.Len(),
	)

	return op, novel
}

// Apply wraps this service's Apply method
// with added logging capabilities.
func (s *loggingService[T]) Apply(op crdt.GSetOp[T]) {

	s.service.Apply(op)

	level.Debug(s.logger).Log(
		"method", "APPLY",
		"element", op.Element(),
		"len", s.service.Len(),
	)
}

// Merge wraps this service's Merge method
// with added logging capabilities.
func (s *loggingService[T]) Merge(snapshot *crdt.GSet[T]) {

	before := s.service.Len()
	s.service.Merge(snapshot)

	level.Debug(s.logger).Log(
		"method", "MERGE",
		"snapshot_len", snapshot.Len(),
		"len_before", before,
		"len", s.service.Len(),
	)
}

func (s *loggingService[T]) Snapshot() *crdt.GSet[T] {
	return s.service.Snapshot()
}

func (s *loggingService[T]) Contains(e T) bool {
	return s.service.Contains(e)
}

func (s *loggingService[T]) Len() int {
	return s.service.Len()
}
