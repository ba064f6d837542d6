package compare

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/render"
)

// DefaultConcurrency bounds the worker pool when Options.Concurrency is zero.
const DefaultConcurrency = 4

// Target is one backend writing into one output directory.
type Target struct {
	Renderer render.Renderer
	Dir      string
}

// Backend returns the target's backend name.
func (t Target) Backend() string { return t.Renderer.Name() }

// Item is the outcome of one (graph, target) pair.
type Item struct {
	// Case is the file stem: the requested case id, or the graph id.
	Case    string
	GraphID string
	Backend string
	// Path is the written artifact; empty on failure.
	Path     string
	Err      error
	Duration time.Duration
	// Index is the 1-based completion order out of Total.
	Index int
	Total int
}

// OK reports whether the item produced an artifact.
func (it Item) OK() bool { return it.Err == nil }

// File returns the artifact file name, such as "mini.svg".
func (it Item) File() string {
	if it.Path != "" {
		return filepath.Base(it.Path)
	}
	return it.Case
}

// Options configures a Runner.
type Options struct {
	// Concurrency bounds the worker pool. Zero uses DefaultConcurrency.
	Concurrency int
	// Cases restricts the run to these ids, matched case-insensitively
	// against the example set. Unmatched ids fail with NO_MATCHING_EXAMPLE.
	// Empty runs every entry.
	Cases []string
	// OnItem is called once per item as it completes. Calls are serialised.
	OnItem func(Item)
	// Logger receives run-level events. Nil uses log.Default().
	Logger *log.Logger
}

// Runner executes comparison batches.
type Runner struct {
	opts Options
}

// NewRunner returns a runner with opts.
func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{opts: opts}
}

// job is one scheduled (case, target) pair. A non-nil err means the graph
// failed before rendering and the target is never invoked.
type job struct {
	slot   int
	caseID string
	graph  *flowchart.Graph
	err    error
	target Target
}

// Run renders every selected graph with every target.
//
// The returned error is reserved for setup problems (no targets, an output
// directory that cannot be created) and for cancellation. Per-item failures
// are only recorded in the report.
func (r *Runner) Run(ctx context.Context, set *flowchart.ExampleSet, targets []Target) (*Report, error) {
	if len(targets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no render targets")
	}
	for _, t := range targets {
		if err := os.MkdirAll(t.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir %s: %w", t.Dir, err)
		}
	}

	runID := uuid.NewString()
	logger := r.opts.Logger.With("run", runID[:8])
	start := time.Now()

	cases := r.selectCases(set)
	jobs := make([]job, 0, len(cases)*len(targets))
	for _, c := range cases {
		for _, t := range targets {
			jobs = append(jobs, job{slot: len(jobs), caseID: c.id, graph: c.graph, err: c.err, target: t})
		}
	}
	logger.Info("batch started", "graphs", len(cases), "targets", len(targets), "items", len(jobs))

	items := make([]Item, len(jobs))
	var done atomic.Int32
	report := make(chan Item)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for it := range report {
			items[it.Index-1] = it
			if r.opts.OnItem != nil {
				r.opts.OnItem(it)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	scheduled := 0
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			it := r.runJob(gctx, j)
			it.Index = int(done.Add(1))
			it.Total = len(jobs)
			report <- it
			return nil
		})
	}
	_ = g.Wait()
	close(report)
	<-collected

	// Unscheduled jobs after cancellation are recorded as cancelled so the
	// report still accounts for every pair.
	for _, j := range jobs[scheduled:] {
		idx := int(done.Add(1))
		items[idx-1] = Item{
			Case: j.caseID, Backend: j.target.Backend(),
			Err: ctx.Err(), Index: idx, Total: len(jobs),
		}
	}

	rep := newReport(runID, targets, items, time.Since(start))
	logger.Info("batch finished",
		"generated", rep.Generated(),
		"failed", rep.Failed(),
		"elapsed", rep.Elapsed.Round(time.Millisecond),
	)
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func (r *Runner) runJob(ctx context.Context, j job) Item {
	it := Item{Case: j.caseID, Backend: j.target.Backend()}
	if j.graph != nil {
		it.GraphID = j.graph.ID
	}
	if j.err != nil {
		it.Err = j.err
		return it
	}
	if err := ctx.Err(); err != nil {
		it.Err = err
		return it
	}

	start := time.Now()
	data, err := j.target.Renderer.Render(ctx, j.graph)
	it.Duration = time.Since(start)
	if err != nil {
		it.Err = err
		r.opts.Logger.Debug("render failed", "case", j.caseID, "backend", it.Backend, "err", err)
		return it
	}

	path := filepath.Join(j.target.Dir, j.caseID+"."+j.target.Renderer.Ext())
	if err := os.WriteFile(path, data, 0644); err != nil {
		it.Err = fmt.Errorf("write %s: %w", path, err)
		return it
	}
	it.Path = path
	return it
}

type selected struct {
	id    string
	graph *flowchart.Graph
	err   error
}

// selectCases resolves the requested cases against set and runs the
// structural checks once per graph.
func (r *Runner) selectCases(set *flowchart.ExampleSet) []selected {
	var out []selected
	add := func(id string, e flowchart.Entry) {
		s := selected{id: id, graph: e.Graph, err: e.Err}
		if s.err == nil {
			s.err = errors.ValidateGraphID(id)
		}
		if s.err == nil && s.graph != nil {
			s.err = flowchart.Validate(s.graph)
		}
		out = append(out, s)
	}

	if len(r.opts.Cases) == 0 {
		for _, e := range set.Entries {
			add(e.ID, e)
		}
		return out
	}
	for _, id := range r.opts.Cases {
		e, ok := set.Find(id)
		if !ok {
			out = append(out, selected{
				id:  id,
				err: errors.New(errors.ErrCodeNoMatchingExample, "no matching example for %q", id),
			})
			continue
		}
		add(id, e)
	}
	return out
}
