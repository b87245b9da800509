package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hiddenmemory/crdt/crdt"
	"github.com/hiddenmemory/crdt/replica"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Structs

// Options control one simulation run.
type Options struct {
	// Replicas names all participating replicas.
	Replicas []string
	// Inserts is the number of local insert steps.
	Inserts int
	// Universe is the number of distinct elements
	// replicas draw from. Small universes cause
	// many duplicate insertions.
	Universe int
	// DuplicateRate is the probability with which a
	// queued operation is delivered a second time.
	DuplicateRate float64
	// MergeEvery makes two random replicas exchange
	// full snapshots every that many steps. Zero
	// disables state-based exchange.
	MergeEvery int
	Seed       int64
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	Steps      int
	NovelOps   int
	Delivered  int
	Duplicates int
	Merges     int
	Converged  bool
	Elements   []string
	Divergent  []string
}

// Simulation bundles the replicas of one run
// together with the undelivered operations.
type Simulation struct {
	logger   log.Logger
	opts     Options
	rnd      *rand.Rand
	runID    string
	replicas []replica.Service[string]
	queue    []delivery
	inserted *crdt.GSet[string]
	ran      bool
}

// delivery is an operation in flight to replica to.
type delivery struct {
	to int
	op crdt.GSetOp[string]
}

// Functions

// Validate checks o for values a run cannot work with.
func (o Options) Validate() error {

	if len(o.Replicas) < 2 {
		return errors.New("simulation needs at least two replicas")
	}

	if o.Inserts < 0 {
		return errors.Errorf("number of inserts must not be negative, got %d", o.Inserts)
	}

	if o.Universe < 1 {
		return errors.Errorf("universe must hold at least one element, got %d", o.Universe)
	}

	if o.DuplicateRate < 0 || o.DuplicateRate > 1 {
		return errors.Errorf("duplicate rate must lie in [0, 1], got %g", o.DuplicateRate)
	}

	if o.MergeEvery < 0 {
		return errors.Errorf("merge interval must not be negative, got %d", o.MergeEvery)
	}

	return nil
}

// New prepares a simulation with one fresh replica per
// name in opts. wrap, if not nil, decorates each replica,
// e.g. with logging or metrics.
func New(logger log.Logger, opts Options, wrap func(replica.Service[string]) replica.Service[string]) (*Simulation, error) {

	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulation options")
	}

	runID := uuid.NewV4().String()

	sim := &Simulation{
		logger:   log.With(logger, "run", runID),
		opts:     opts,
		rnd:      rand.New(rand.NewSource(opts.Seed)),
		runID:    runID,
		replicas: make([]replica.Service[string], 0, len(opts.Replicas)),
		inserted: crdt.NewGSet[string](),
	}

	for _, name := range opts.Replicas {

		r := replica.NewService[string](name)
		if wrap != nil {
			r = wrap(r)
		}

		sim.replicas = append(sim.replicas, r)
	}

	return sim, nil
}

// Inserted returns a copy of all elements any replica
// was asked to insert so far, novel or not.
func (sim *Simulation) Inserted() *crdt.GSet[string] {
	return sim.inserted.Clone()
}

// Replicas returns the replicas taking part in the run.
func (sim *Simulation) Replicas() []replica.Service[string] {
	return sim.replicas
}

// Run executes all insert steps, drains the remaining
// operations and checks convergence. It stops early with
// the context's error if ctx is done between two steps.
func (sim *Simulation) Run(ctx context.Context) (*Report, error) {

	if sim.ran {
		return nil, errors.New("simulation has already been run")
	}
	sim.ran = true

	report := &Report{
		RunID: sim.runID,
	}

	level.Info(sim.logger).Log(
		"msg", "starting simulation",
		"replicas", len(sim.replicas),
		"inserts", sim.opts.Inserts,
		"seed", sim.opts.Seed,
	)

	for step := 1; step <= sim.opts.Inserts; step++ {

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "simulation stopped at step %d", step)
		}

		sim.insert(report)

		// Let a random part of the operations in flight arrive.
		sim.deliver(report, sim.rnd.Intn(len(sim.replicas)+1))

		if sim.opts.MergeEvery > 0 && (step%sim.opts.MergeEvery) == 0 {
			sim.exchange(report)
		}

		report.Steps = step
	}

	// Eventually every operation reaches every replica.
	sim.deliver(report, len(sim.queue))

	sim.check(report)

	level.Info(sim.logger).Log(
		"msg", "finished simulation",
		"steps", report.Steps,
		"novel_ops", report.NovelOps,
		"delivered", report.Delivered,
		"duplicates", report.Duplicates,
		"merges", report.Merges,
		"elements", len(report.Elements),
		"converged", report.Converged,
	)

	return report, nil
}

// insert lets a random replica insert a random element
// and puts the resulting operation in flight to all other
// replicas if the insertion was novel.
func (sim *Simulation) insert(report *Report) {

	from := sim.rnd.Intn(len(sim.replicas))
	element := fmt.Sprintf("element-%d", sim.rnd.Intn(sim.opts.Universe))
	sim.inserted.Insert(element)

	op, novel := sim.replicas[from].Insert(element)
	if !novel {
		return
	}

	report.NovelOps++

	for to := range sim.replicas {

		if to == from {
			continue
		}

		sim.queue = append(sim.queue, delivery{to: to, op: op})

		if sim.rnd.Float64() < sim.opts.DuplicateRate {
			sim.queue = append(sim.queue, delivery{to: to, op: op})
			report.Duplicates++
		}
	}
}

// deliver applies n randomly picked operations in flight.
func (sim *Simulation) deliver(report *Report, n int) {

	for ; n > 0 && len(sim.queue) > 0; n-- {

		i := sim.rnd.Intn(len(sim.queue))
		d := sim.queue[i]

		last := len(sim.queue) - 1
		sim.queue[i] = sim.queue[last]
		sim.queue = sim.queue[:last]

		sim.replicas[d.to].Apply(d.op)
		report.Delivered++
	}
}

// exchange merges the snapshot of one random
// replica into another random one.
func (sim *Simulation) exchange(report *Report) {

	from := sim.rnd.Intn(len(sim.replicas))
	to := sim.rnd.Intn(len(sim.replicas) - 1)
	if to >= from {
		to++
	}

	sim.replicas[to].Merge(sim.replicas[from].Snapshot())
	report.Merges++
}

// check compares every replica with the set of all inserted
// elements. The union of all replica snapshots has to match
// that set as well, otherwise an insertion got lost everywhere.
func (sim *Simulation) check(report *Report) {

	snapshots := make([]*crdt.GSet[string], 0, len(sim.replicas))
	for _, r := range sim.replicas {
		snapshots = append(snapshots, r.Snapshot())
	}

	reference := crdt.NewGSet[string]()
	crdt.MergeAll(reference, snapshots...)

	lost := !reference.Equal(sim.inserted)
	if lost {

		level.Warn(sim.logger).Log(
			"msg", "insertions missing from all replicas",
			"order", reference.Compare(sim.inserted),
			"len", reference.Len(),
			"inserted_len", sim.inserted.Len(),
		)
	}

	for i, snapshot := range snapshots {

		if order := snapshot.Compare(sim.inserted); order != crdt.Equal {

			level.Warn(sim.logger).Log(
				"msg", "replica diverged",
				"replica", sim.replicas[i].Name(),
				"order", order,
				"len", snapshot.Len(),
				"inserted_len", sim.inserted.Len(),
			)

			report.Divergent = append(report.Divergent, sim.replicas[i].Name())
		}
	}

	report.Elements = reference.Elements()
	sort.Strings(report.Elements)
	report.Converged = !lost && len(report.Divergent) == 0
}
