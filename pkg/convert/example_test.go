package convert_test

import (
	"fmt"

	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

func ExampleToDOT() {
	g := &flowchart.Graph{
		ID: "mini",
		Nodes: []flowchart.Node{
			{ID: "a", Type: "start"},
			{ID: "b", Type: "end"},
		},
		Edges: []flowchart.Edge{{From: "a", To: "b"}},
	}

	fmt.Print(convert.ToDOT(g, convert.Options{}))
	// Output:
	// digraph "mini" {
	//   rankdir=TB;
	//   splines=ortho;
	//   node [shape=box, style=filled, fontname="Arial"];
	//   edge [fontname="Arial"];
	//
	//   "a" [shape=ellipse, label="a", fillcolor="#90EE90", fontcolor="#228B22", style=filled];
	//   "b" [shape=ellipse, label="b", fillcolor="#FFB6C1", fontcolor="#C71585", style=filled];
	//
	//   "a" -> "b";
	// }
}

func ExampleToD2() {
	g := &flowchart.Graph{
		ID: "review",
		Nodes: []flowchart.Node{
			{ID: "check", Label: "Approved?", Type: "decision"},
			{ID: "done", Type: "end"},
		},
		Edges: []flowchart.Edge{{From: "check", To: "done", Label: "yes"}},
	}

	fmt.Print(convert.ToD2(g, convert.Options{}))
	// Output:
	// # review
	//
	// direction: down
	//
	// check: {
	//   label: "Approved?"
	//   shape: diamond
	//   style: {
	//     fill: "#FFD700"
	//     stroke: "#DAA520"
	//     stroke-width: 1
	//   }
	// }
	//
	// done: {
	//   label: "done"
	//   shape: circle
	//   style: {
	//     fill: "#FFB6C1"
	//     stroke: "#C71585"
	//     stroke-width: 2
	//   }
	// }
	//
	// check -> done: "yes"
}
