package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

// ToDOT converts a graph to a Graphviz digraph.
//
// Each node becomes one statement carrying shape, label, fillcolor, fontcolor
// and style=filled from the DOT style table; identifiers and labels are
// quoted with embedded quotes escaped. Edges follow in input order, with a
// label attribute when the edge has one.
func ToDOT(g *flowchart.Graph, opts Options) string {
	styles := opts.styles()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", dotQuote(g.ID))
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  node [shape=box, style=filled, fontname=\"Arial\"];\n")
	buf.WriteString("  edge [fontname=\"Arial\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		s := styles.Resolve(n.Type, style.FormatDOT)
		attrs := []string{
			"shape=" + s.Shape,
			"label=" + dotQuote(n.DisplayLabel()),
			"fillcolor=" + dotQuote(s.Fill),
			"fontcolor=" + dotQuote(s.Stroke),
			"style=filled",
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", dotQuote(e.From), dotQuote(e.To), dotQuote(e.Label))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(e.From), dotQuote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`)

// dotQuote returns s as a DOT double-quoted string. Only backslashes, quotes
// and line breaks are escaped; every other character, including tabs and
// zero-width joiners, is passed through for Graphviz to render.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
