// Package convert turns a [flowchart.Graph] into the text formats consumed by
// external layout engines.
//
// Every converter is a pure function: no I/O, no shared state, and the same
// graph always produces byte-identical output. Converters do not validate;
// callers run [flowchart.Validate] first.
//
// # Formats
//
//   - [ToDOT]: Graphviz digraph with per-type shapes and colors
//   - [ToD2]: D2 source with one block per node
//   - [ToGraphML]: GraphML XML with label/type/fill/stroke data keys
//   - [ToELK]: ELK JSON graph with layered layout options
//
// [Convert] dispatches on a [Format] name for callers that select formats
// at runtime.
package convert
