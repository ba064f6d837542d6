package convert

import (
	"strconv"
	"strings"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

// ToD2 converts a graph to D2 source.
//
// The output starts with a comment naming the graph and a direction: down
// directive, followed by one block per node and one connection per edge in
// input order. Labelled edges are written as `a -> b: "label"` unless
// Options.OmitEdgeLabels is set.
func ToD2(g *flowchart.Graph, opts Options) string {
	styles := opts.styles()

	var sb strings.Builder
	sb.WriteString("# " + g.ID + "\n\n")
	sb.WriteString("direction: down\n\n")

	for _, n := range g.Nodes {
		s := styles.Resolve(n.Type, style.FormatD2)
		sb.WriteString(d2ID(n.ID) + ": {\n")
		sb.WriteString("  label: " + d2String(n.DisplayLabel()) + "\n")
		sb.WriteString("  shape: " + s.Shape + "\n")
		sb.WriteString(d2StyleBlock(s))
		sb.WriteString("}\n\n")
	}

	for _, e := range g.Edges {
		sb.WriteString(d2ID(e.From) + " -> " + d2ID(e.To))
		if e.Label != "" && !opts.OmitEdgeLabels {
			sb.WriteString(": " + d2String(e.Label))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// d2StyleBlock renders the style map, or nothing when no field is set.
func d2StyleBlock(s style.Style) string {
	if s.Fill == "" && s.Stroke == "" && s.StrokeWidth == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("  style: {\n")
	if s.Fill != "" {
		sb.WriteString("    fill: " + d2String(s.Fill) + "\n")
	}
	if s.Stroke != "" {
		sb.WriteString("    stroke: " + d2String(s.Stroke) + "\n")
	}
	if s.StrokeWidth != 0 {
		sb.WriteString("    stroke-width: " + strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64) + "\n")
	}
	sb.WriteString("  }\n")
	return sb.String()
}

// d2String quotes a value as a D2 double-quoted string.
func d2String(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

// d2ID returns id unchanged when it is a plain key, quoted otherwise.
func d2ID(id string) string {
	if id == "" {
		return `""`
	}
	for _, r := range id {
		if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return d2String(id)
		}
	}
	return id
}
