package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/hiddenmemory/crdt/crdt"
	"github.com/hiddenmemory/crdt/replica"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Variables

var defaultOpts = Options{
	Replicas:      []string{"worker-1", "worker-2", "storage"},
	Inserts:       300,
	Universe:      50,
	DuplicateRate: 0.3,
	MergeEvery:    25,
	Seed:          1,
}

// Structs

// forgetfulService announces every insertion as novel
// but never stores anything, neither locally nor remotely.
type forgetfulService struct {
	replica.Service[string]
}

// Functions

func (s *forgetfulService) Insert(e string) (crdt.GSetOp[string], bool) {
	return crdt.NewGSetOp(e), true
}

func (s *forgetfulService) Apply(op crdt.GSetOp[string]) {}

func (s *forgetfulService) Merge(snapshot *crdt.GSet[string]) {}

// TestRun executes a complete simulation and
// checks that all replicas converge.
func TestRun(t *testing.T) {

	sim, err := New(log.NewNopLogger(), defaultOpts, nil)
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Converged, "diverged replicas: %v", report.Divergent)
	assert.Empty(t, report.Divergent)
	assert.Equal(t, defaultOpts.Inserts, report.Steps)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 12, report.Merges)

	// Every novel operation went to every other
	// replica, some of them twice.
	assert.Equal(t, report.NovelOps*2+report.Duplicates, report.Delivered)
	assert.LessOrEqual(t, len(report.Elements), defaultOpts.Universe)

	// Two replicas may insert the same element before hearing
	// of each other, so novel operations can outnumber elements.
	assert.LessOrEqual(t, len(report.Elements), report.NovelOps)
	assert.ElementsMatch(t, sim.Inserted().Elements(), report.Elements)

	for _, r := range sim.Replicas() {
		assert.Equal(t, len(report.Elements), r.Len(), "replica %s", r.Name())
	}

	// A simulation runs exactly once.
	_, err = sim.Run(context.Background())
	assert.Error(t, err)
}

// TestRunDeterministic checks that runs are
// reproducible from their seed.
func TestRunDeterministic(t *testing.T) {

	run := func() *Report {

		sim, err := New(log.NewNopLogger(), defaultOpts, nil)
		require.NoError(t, err)

		report, err := sim.Run(context.Background())
		require.NoError(t, err)

		return report
	}

	first, second := run(), run()

	assert.NotEqual(t, first.RunID, second.RunID)
	first.RunID, second.RunID = "", ""
	assert.Equal(t, first, second)
}

// TestRunConverges checks convergence for
// arbitrary seeds and delivery settings.
func TestRunConverges(t *testing.T) {

	rapid.Check(t, func(t *rapid.T) {

		n := rapid.IntRange(2, 6).Draw(t, "replicas")

		opts := Options{
			Inserts:       rapid.IntRange(0, 200).Draw(t, "inserts"),
			Universe:      rapid.IntRange(1, 64).Draw(t, "universe"),
			DuplicateRate: rapid.Float64Range(0, 1).Draw(t, "duplicateRate"),
			MergeEvery:    rapid.IntRange(0, 20).Draw(t, "mergeEvery"),
			Seed:          rapid.Int64().Draw(t, "seed"),
		}

		for i := 0; i < n; i++ {
			opts.Replicas = append(opts.Replicas, fmt.Sprintf("replica-%d", i))
		}

		sim, err := New(log.NewNopLogger(), opts, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		report, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !report.Converged {
			t.Fatalf("replicas %v diverged", report.Divergent)
		}
	})
}

// TestRunCancelled checks that a done context
// stops the simulation.
func TestRunCancelled(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim, err := New(log.NewNopLogger(), defaultOpts, nil)
	require.NoError(t, err)

	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestNewWrap checks that every replica gets decorated.
func TestNewWrap(t *testing.T) {

	var wrapped []string

	sim, err := New(log.NewNopLogger(), defaultOpts, func(r replica.Service[string]) replica.Service[string] {
		wrapped = append(wrapped, r.Name())
		return r
	})
	require.NoError(t, err)

	assert.Equal(t, defaultOpts.Replicas, wrapped)
	assert.Len(t, sim.Replicas(), len(defaultOpts.Replicas))
}

// TestOptionsValidate checks rejection of unusable options.
func TestOptionsValidate(t *testing.T) {

	assert.NoError(t, defaultOpts.Validate())

	tests := map[string]func(o *Options){
		"one replica":        func(o *Options) { o.Replicas = o.Replicas[:1] },
		"negative inserts":   func(o *Options) { o.Inserts = -1 },
		"empty universe":     func(o *Options) { o.Universe = 0 },
		"negative dup rate":  func(o *Options) { o.DuplicateRate = -0.1 },
		"dup rate above one": func(o *Options) { o.DuplicateRate = 1.5 },
		"negative interval":  func(o *Options) { o.MergeEvery = -3 },
	}

	for name, mutate := range tests {

		opts := defaultOpts
		opts.Replicas = append([]string(nil), defaultOpts.Replicas...)
		mutate(&opts)

		assert.Error(t, opts.Validate(), name)

		_, err := New(log.NewNopLogger(), opts, nil)
		assert.Error(t, err, name)
	}
}

// TestRunDetectsLostInsertions checks that insertions missing
// from every single replica are reported as divergence.
func TestRunDetectsLostInsertions(t *testing.T) {

	sim, err := New(log.NewNopLogger(), defaultOpts, func(r replica.Service[string]) replica.Service[string] {
		return &forgetfulService{r}
	})
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Converged, "lost insertions must not count as converged")
	assert.Equal(t, defaultOpts.Replicas, report.Divergent)
	assert.Empty(t, report.Elements)
	assert.False(t, sim.Inserted().IsEmpty())
}
