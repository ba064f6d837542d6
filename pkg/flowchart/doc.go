// Package flowchart defines the graph interchange model shared by every
// converter, renderer and the playground.
//
// A [Graph] is an id plus ordered nodes and edges. Order is meaningful: node
// order is the fallback placement order for backends without their own
// layout (the canvas grid), and edge order is the emission order of every
// converter.
//
// # Input format
//
// Example collections are JSON objects keyed by graph id:
//
//	{
//	  "mini": {
//	    "nodes": [{"id": "a", "type": "start"}, {"id": "b", "type": "end"}],
//	    "edges": [{"from": "a", "to": "b"}]
//	  }
//	}
//
// [ReadExamples] decodes such a document into an [ExampleSet]. An entry that
// cannot be decoded, or that lacks its nodes/edges arrays, is kept in the set
// with its error so a batch can report it and move on.
//
// # Validation
//
// [Validate] checks structural invariants: edge endpoints resolve, node ids
// are unique and the parent relation is a forest. Node types are never
// validated; any type string is presentational and resolves to a style.
package flowchart
