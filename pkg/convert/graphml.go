package convert

import (
	"strconv"
	"strings"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

const graphmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns
         http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd">
  <key id="d0" for="node" attr.name="label" attr.type="string"/>
  <key id="d1" for="node" attr.name="type" attr.type="string"/>
  <key id="d2" for="node" attr.name="fill" attr.type="string"/>
  <key id="d3" for="node" attr.name="stroke" attr.type="string"/>
  <key id="d4" for="edge" attr.name="label" attr.type="string"/>
  <graph id="G" edgedefault="directed">
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }

// ToGraphML converts a graph to a GraphML document.
//
// Every node carries label, type, fill and stroke data; edges are numbered
// e0, e1, ... by input position and carry a label data element only when the
// edge is labelled. All text and attribute values are XML-escaped.
func ToGraphML(g *flowchart.Graph, opts Options) string {
	styles := opts.styles()

	var sb strings.Builder
	sb.WriteString(graphmlHeader)

	for _, n := range g.Nodes {
		s := styles.Resolve(n.Type, style.FormatGraphML)
		typ := n.Type
		if typ == "" {
			typ = style.KindDefault.String()
		}
		sb.WriteString(`    <node id="` + escapeXML(n.ID) + "\">\n")
		writeData(&sb, "d0", n.DisplayLabel())
		writeData(&sb, "d1", typ)
		writeData(&sb, "d2", s.Fill)
		writeData(&sb, "d3", s.Stroke)
		sb.WriteString("    </node>\n")
	}

	for i, e := range g.Edges {
		sb.WriteString(`    <edge id="e` + strconv.Itoa(i) + `" source="` + escapeXML(e.From) + `" target="` + escapeXML(e.To) + `"`)
		if e.Label == "" {
			sb.WriteString("/>\n")
			continue
		}
		sb.WriteString(">\n")
		writeData(&sb, "d4", e.Label)
		sb.WriteString("    </edge>\n")
	}

	sb.WriteString("  </graph>\n</graphml>")
	return sb.String()
}

func writeData(sb *strings.Builder, key, value string) {
	sb.WriteString(`      <data key="` + key + `">` + escapeXML(value) + "</data>\n")
}
