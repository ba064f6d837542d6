// Package pkg provides the core libraries for flowbench, a harness that
// renders the same flowcharts through several layout engines so their output
// can be compared side by side.
//
// # Overview
//
// A run reads a set of example flowcharts, converts each one into the input
// format of every selected engine, renders it, and writes one artifact per
// (graph, engine) pair. Failures are isolated per item and summarised at the
// end. The pkg directory is organized into these areas:
//
//  1. [flowchart] - The graph model, the examples file, and validation
//  2. [style] - Per-format lookup tables for node shapes and colors
//  3. [convert] - Serialisers for DOT, D2, GraphML and ELK JSON
//  4. [render] - Engine backends (graphviz, d2, canvas, browser) and wrappers
//  5. [compare] - The batch runner, test-case discovery, and watch mode
//  6. [playground] - The interactive Cytoscape session and its web host
//
// Supporting packages: [config], [cache], [retry], [errors], [observability]
// and [buildinfo].
//
// # Architecture
//
// The typical data flow through a comparison run:
//
//	examples.json
//	     ↓
//	[flowchart] package (load + validate)
//	     ↓
//	[convert] package (DOT / D2 / GraphML / ELK)
//	     ↓
//	[render] package (engine backends, cached and instrumented)
//	     ↓
//	[compare] package (worker pool + report)
//	     ↓
//	output/<engine>/<case>.<ext>
//
// # Quick Start
//
//	import (
//	    "context"
//	    "fmt"
//	    "github.com/matzehuels/flowbench/pkg/compare"
//	    "github.com/matzehuels/flowbench/pkg/flowchart"
//	    "github.com/matzehuels/flowbench/pkg/render"
//	)
//
//	set, _ := flowchart.LoadExamples("examples.json")
//	r, _ := render.New(render.BackendD2, render.Config{})
//	report, _ := compare.NewRunner(compare.Options{}).Run(
//	    context.Background(), set,
//	    []compare.Target{{Renderer: r, Dir: "output/d2"}},
//	)
//	fmt.Println(report.Summary())
//
// [flowchart]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/flowchart
// [style]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/style
// [convert]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/convert
// [render]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/render
// [compare]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/compare
// [playground]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/playground
// [config]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/cache
// [retry]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/retry
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowbench/pkg/buildinfo
package pkg
