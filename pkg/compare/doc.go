// Package compare runs an example set through a list of render targets and
// collects the artifacts for side-by-side comparison.
//
// A [Runner] fans (graph, target) pairs out over a bounded worker pool.
// Failures are isolated: a graph that does not decode or validate fails for
// every target without invoking any converter, and a renderer error fails
// only its own pair. Per-item outcomes are reported through
// [Options.OnItem] as they complete and summarised in the returned [Report].
//
//	runner := compare.NewRunner(compare.Options{Concurrency: 4, Logger: logger})
//	report, err := runner.Run(ctx, set, targets)
//	if err != nil {
//	    return err // setup error or cancellation
//	}
//	fmt.Println(report.Summary()) // "41 generated, 1 failed"
//
// The package also carries the viewer helpers: [DiscoverCases] lists the
// reference cases of a directory, [WriteCaseConfig] rewrites the viewer's
// testCases list, and [Watch] re-runs a batch when the examples file
// changes.
package compare
