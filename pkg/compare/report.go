package compare

import (
	"fmt"
	"time"
)

// TargetSummary counts the outcomes of one target.
type TargetSummary struct {
	Backend   string
	Dir       string
	Generated int
	Failed    int
}

// Summary returns "<generated> generated, <failed> failed".
func (s TargetSummary) Summary() string {
	return summaryLine(s.Generated, s.Failed)
}

// Report is the outcome of one batch.
type Report struct {
	RunID   string
	Elapsed time.Duration
	// Items holds every (case, target) outcome in completion order.
	Items []Item
	// Targets holds per-target counts in the order targets were given.
	Targets []TargetSummary
}

func newReport(runID string, targets []Target, items []Item, elapsed time.Duration) *Report {
	rep := &Report{RunID: runID, Elapsed: elapsed, Items: items}
	index := make(map[string]int, len(targets))
	for _, t := range targets {
		index[t.Backend()] = len(rep.Targets)
		rep.Targets = append(rep.Targets, TargetSummary{Backend: t.Backend(), Dir: t.Dir})
	}
	for _, it := range items {
		ts := &rep.Targets[index[it.Backend]]
		if it.OK() {
			ts.Generated++
		} else {
			ts.Failed++
		}
	}
	return rep
}

// Generated returns the number of artifacts written.
func (r *Report) Generated() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Generated
	}
	return n
}

// Failed returns the number of failed items.
func (r *Report) Failed() int {
	n := 0
	for _, t := range r.Targets {
		n += t.Failed
	}
	return n
}

// OK reports whether every item succeeded.
func (r *Report) OK() bool { return r.Failed() == 0 }

// Failures returns the failed items.
func (r *Report) Failures() []Item {
	var out []Item
	for _, it := range r.Items {
		if !it.OK() {
			out = append(out, it)
		}
	}
	return out
}

// Summary returns the overall "<generated> generated, <failed> failed" line.
func (r *Report) Summary() string {
	return summaryLine(r.Generated(), r.Failed())
}

func summaryLine(generated, failed int) string {
	return fmt.Sprintf("%d generated, %d failed", generated, failed)
}
