package convert

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"pgregory.net/rapid"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

func mini() *flowchart.Graph {
	return &flowchart.Graph{
		ID: "mini",
		Nodes: []flowchart.Node{
			{ID: "a", Type: "start"},
			{ID: "b", Type: "end"},
		},
		Edges: []flowchart.Edge{{From: "a", To: "b"}},
	}
}

func quoted() *flowchart.Graph {
	return &flowchart.Graph{
		ID:    "quoted",
		Nodes: []flowchart.Node{{ID: "x", Label: `Say "hi" & <bye>`}},
	}
}

func TestMini(t *testing.T) {
	g := mini()

	t.Run("dot", func(t *testing.T) {
		dot := ToDOT(g, Options{})
		nodeStmt := regexp.MustCompile(`(?m)^  "[^"]+" \[shape=`)
		if n := len(nodeStmt.FindAllString(dot, -1)); n != 2 {
			t.Errorf("node statements = %d, want 2\n%s", n, dot)
		}
		if !strings.Contains(dot, "\n  \"a\" -> \"b\";\n") {
			t.Errorf("missing edge line\n%s", dot)
		}
		if !strings.HasPrefix(dot, "digraph \"mini\" {\n  rankdir=TB;\n") {
			t.Errorf("unexpected header\n%s", dot)
		}
	})

	t.Run("d2", func(t *testing.T) {
		d2 := ToD2(g, Options{})
		for _, want := range []string{"# mini\n", "direction: down\n", "\na: {\n", "\nb: {\n", "\na -> b\n"} {
			if !strings.Contains(d2, want) {
				t.Errorf("missing %q\n%s", want, d2)
			}
		}
		if n := strings.Count(d2, "  shape: "); n != 2 {
			t.Errorf("shape lines = %d, want 2", n)
		}
	})

	t.Run("graphml", func(t *testing.T) {
		gml := ToGraphML(g, Options{})
		if n := strings.Count(gml, "<node "); n != 2 {
			t.Errorf("<node> elements = %d, want 2", n)
		}
		if n := strings.Count(gml, "<key "); n != 5 {
			t.Errorf("<key> elements = %d, want 5", n)
		}
		if !strings.Contains(gml, `<edge id="e0" source="a" target="b"/>`) {
			t.Errorf("missing edge element\n%s", gml)
		}
	})
}

func TestToDOT_NodeAttributes(t *testing.T) {
	dot := ToDOT(mini(), Options{})
	want := `  "a" [shape=ellipse, label="a", fillcolor="#90EE90", fontcolor="#228B22", style=filled];`
	if !strings.Contains(dot, want) {
		t.Errorf("missing %s\n%s", want, dot)
	}
}

func TestToDOT_EdgeLabel(t *testing.T) {
	g := mini()
	g.Edges[0].Label = "go"
	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `"a" -> "b" [label="go"];`) {
		t.Errorf("labelled edge missing\n%s", dot)
	}
}

func TestEscaping(t *testing.T) {
	g := quoted()

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `label="Say \"hi\" & <bye>"`) {
		t.Errorf("DOT label not escaped\n%s", dot)
	}

	gml := ToGraphML(g, Options{})
	for _, ent := range []string{"&quot;", "&amp;", "&lt;", "&gt;"} {
		if !strings.Contains(gml, ent) {
			t.Errorf("GraphML missing %s\n%s", ent, gml)
		}
	}

	d2 := ToD2(g, Options{})
	if !strings.Contains(d2, `label: "Say \"hi\" & <bye>"`) {
		t.Errorf("D2 label not escaped\n%s", d2)
	}

	if _, err := ToELK(g, ELKOptions{}); err != nil {
		t.Errorf("ToELK: %v", err)
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "plain", `"plain"`},
		{"quote", `Say "hi"`, `"Say \"hi\""`},
		{"backslash", `C:\tmp`, `"C:\\tmp"`},
		{"newline", "two\nlines", `"two\nlines"`},
		{"tab kept", "a\tb", "\"a\tb\""},
		{"zwj emoji kept", "👩\u200d💻 dev", "\"👩\u200d💻 dev\""},
		{"control kept", "x\x01y", "\"x\x01y\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dotQuote(tt.in); got != tt.want {
				t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDOT_NoGoEscapes(t *testing.T) {
	g := &flowchart.Graph{
		ID:    "emoji",
		Nodes: []flowchart.Node{{ID: "dev", Label: "👩\u200d💻\ttab \x01 ctl"}},
	}
	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, "label=\"👩\u200d💻\ttab \x01 ctl\"") {
		t.Errorf("label not passed through verbatim\n%s", dot)
	}
	for _, esc := range []string{`\u200d`, `\t`, `\x01`} {
		if strings.Contains(dot, esc) {
			t.Errorf("DOT output contains Go escape %s\n%s", esc, dot)
		}
	}
}

func TestSelfLoop(t *testing.T) {
	g := &flowchart.Graph{
		ID:    "loop",
		Nodes: []flowchart.Node{{ID: "a", Type: "process"}},
		Edges: []flowchart.Edge{{From: "a", To: "a"}, {From: "a", To: "a", Label: "again"}},
	}
	if err := flowchart.Validate(g); err != nil {
		t.Fatalf("self-loop graph should be valid: %v", err)
	}

	tests := []struct {
		name string
		out  string
		want []string
	}{
		{"dot", ToDOT(g, Options{}), []string{"  \"a\" -> \"a\";\n", `  "a" -> "a" [label="again"];`}},
		{"d2", ToD2(g, Options{}), []string{"\na -> a\n", "\na -> a: \"again\"\n"}},
		{"graphml", ToGraphML(g, Options{}), []string{`<edge id="e0" source="a" target="a"/>`, `<edge id="e1" source="a" target="a">`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.want {
				if !strings.Contains(tt.out, want) {
					t.Errorf("missing %q\n%s", want, tt.out)
				}
			}
		})
	}
}

func TestToD2_EdgeLabels(t *testing.T) {
	g := mini()
	g.Edges = append(g.Edges, flowchart.Edge{From: "b", To: "a", Label: "retry"})

	got := ToD2(g, Options{})
	if !strings.Contains(got, "\na -> b\n") {
		t.Errorf("unlabelled edge changed\n%s", got)
	}
	if !strings.Contains(got, "\nb -> a: \"retry\"\n") {
		t.Errorf("labelled edge missing label\n%s", got)
	}

	parity := ToD2(g, Options{OmitEdgeLabels: true})
	if strings.Contains(parity, "retry") {
		t.Errorf("OmitEdgeLabels kept label\n%s", parity)
	}
}

func TestToD2_QuotesIDs(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"plain_id-1", "plain_id-1"},
		{"has space", `"has space"`},
		{"a.b", `"a.b"`},
		{"", `""`},
	}
	for _, tt := range tests {
		if got := d2ID(tt.id); got != tt.want {
			t.Errorf("d2ID(%q) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestD2StyleBlock_Empty(t *testing.T) {
	if got := d2StyleBlock(style.Style{Shape: "rectangle"}); got != "" {
		t.Errorf("empty style block = %q, want empty", got)
	}
	got := d2StyleBlock(style.Style{Fill: "#fff", StrokeWidth: 2})
	want := "  style: {\n    fill: \"#fff\"\n    stroke-width: 2\n  }\n"
	if got != want {
		t.Errorf("style block = %q, want %q", got, want)
	}
}

func TestToGraphML_LabelledEdge(t *testing.T) {
	g := mini()
	g.Edges[0].Label = "yes"
	gml := ToGraphML(g, Options{})
	want := "    <edge id=\"e0\" source=\"a\" target=\"b\">\n      <data key=\"d4\">yes</data>\n    </edge>\n"
	if !strings.Contains(gml, want) {
		t.Errorf("labelled edge missing\n%s", gml)
	}
}

func TestToGraphML_UnknownTypeUsesProcessColours(t *testing.T) {
	g := &flowchart.Graph{ID: "t", Nodes: []flowchart.Node{{ID: "n"}}}
	gml := ToGraphML(g, Options{})
	if !strings.Contains(gml, `<data key="d1">default</data>`) {
		t.Errorf("empty type should be written as default\n%s", gml)
	}
	if !strings.Contains(gml, `<data key="d2">#87CEEB</data>`) || !strings.Contains(gml, `<data key="d3">#4682B4</data>`) {
		t.Errorf("unknown type should use the process colours\n%s", gml)
	}
}

// graphmlDoc mirrors the subset of GraphML needed to read labels back.
type graphmlDoc struct {
	Graph struct {
		Nodes []struct {
			ID   string `xml:"id,attr"`
			Data []struct {
				Key   string `xml:"key,attr"`
				Value string `xml:",chardata"`
			} `xml:"data"`
		} `xml:"node"`
		Edges []struct {
			ID     string `xml:"id,attr"`
			Source string `xml:"source,attr"`
			Target string `xml:"target,attr"`
		} `xml:"edge"`
	} `xml:"graph"`
}

func parseGraphML(t interface{ Fatalf(string, ...any) }, s string) graphmlDoc {
	var doc graphmlDoc
	if err := xml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("xml.Unmarshal: %v\n%s", err, s)
	}
	return doc
}

func TestToGraphML_EscapeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		core := rapid.StringMatching(`[a-zA-Z0-9 ]{0,12}`).Draw(t, "core")
		label := `&<>"'` + core
		id := rapid.StringMatching(`[a-z][a-z0-9&<>"']{0,8}`).Draw(t, "id")

		g := &flowchart.Graph{ID: "esc", Nodes: []flowchart.Node{{ID: id, Label: label}}}
		doc := parseGraphML(t, ToGraphML(g, Options{}))

		if len(doc.Graph.Nodes) != 1 {
			t.Fatalf("nodes = %d, want 1", len(doc.Graph.Nodes))
		}
		n := doc.Graph.Nodes[0]
		if n.ID != id {
			t.Fatalf("id round trip = %q, want %q", n.ID, id)
		}
		if n.Data[0].Key != "d0" || n.Data[0].Value != label {
			t.Fatalf("label round trip = %q, want %q", n.Data[0].Value, label)
		}
	})
}

func TestToGraphML_EdgeIndexing(t *testing.T) {
	g := &flowchart.Graph{
		ID: "order",
		Nodes: []flowchart.Node{
			{ID: "c"}, {ID: "a"}, {ID: "b"},
		},
		Edges: []flowchart.Edge{
			{From: "b", To: "c"},
			{From: "a", To: "b"},
			{From: "c", To: "a", Label: "back"},
		},
	}
	doc := parseGraphML(t, ToGraphML(g, Options{}))

	if len(doc.Graph.Edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(doc.Graph.Edges))
	}
	for i, e := range doc.Graph.Edges {
		if want := fmt.Sprintf("e%d", i); e.ID != want {
			t.Errorf("edge %d id = %q, want %q", i, e.ID, want)
		}
		if e.Source != g.Edges[i].From || e.Target != g.Edges[i].To {
			t.Errorf("edge %d = %s->%s, want %s->%s", i, e.Source, e.Target, g.Edges[i].From, g.Edges[i].To)
		}
	}
}

func TestToELK_NodeSizing(t *testing.T) {
	g := &flowchart.Graph{
		ID: "sizes",
		Nodes: []flowchart.Node{
			{ID: "s", Type: "start"},
			{ID: "d", Type: "decision"},
			{ID: "p", Type: "process"},
			{ID: "u"},
			{ID: "e", Type: "end"},
		},
		Edges: []flowchart.Edge{{From: "s", To: "d"}, {From: "d", To: "e", Label: "no"}},
	}

	layout := ELKLayout(g, ELKOptions{})
	want := map[string][2]int{
		"s": {140, 50},
		"d": {140, 80},
		"p": {150, 50},
		"u": {150, 50},
		"e": {140, 50},
	}
	for _, n := range layout.Children {
		if got := [2]int{n.Width, n.Height}; got != want[n.ID] {
			t.Errorf("%s size = %v, want %v", n.ID, got, want[n.ID])
		}
	}
	if layout.Children[3].Properties.Type != "process" {
		t.Errorf("untyped node type = %q, want process", layout.Children[3].Properties.Type)
	}
	if layout.Edges[1].ID != "edge-1" || layout.Edges[1].Labels[0].Text != "no" {
		t.Errorf("edge 1 = %+v", layout.Edges[1])
	}
	if layout.LayoutOptions["elk.direction"] != DirectionDown {
		t.Errorf("direction = %q, want DOWN", layout.LayoutOptions["elk.direction"])
	}
}

func TestToELK_Compound(t *testing.T) {
	g := &flowchart.Graph{
		ID: "nested",
		Nodes: []flowchart.Node{
			{ID: "group"},
			{ID: "inner", Parent: "group"},
			{ID: "outer"},
		},
	}

	data, err := ToELK(g, ELKOptions{Direction: DirectionRight, MergeEdges: true})
	if err != nil {
		t.Fatalf("ToELK: %v", err)
	}

	var got ELKGraph
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(got.Children))
	}
	if len(got.Children[0].Children) != 1 || got.Children[0].Children[0].ID != "inner" {
		t.Errorf("group children = %+v", got.Children[0].Children)
	}
	if got.LayoutOptions["elk.layered.mergeEdges"] != "true" {
		t.Error("mergeEdges not set")
	}
	if got.LayoutOptions["elk.direction"] != DirectionRight {
		t.Errorf("direction = %q", got.LayoutOptions["elk.direction"])
	}
}

func TestConvert(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := Convert(f, mini(), Options{})
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if len(data) == 0 {
				t.Error("empty output")
			}
		})
	}

	_, err := Convert("svg", mini(), Options{})
	if !errors.Is(err, errors.ErrCodeUnknownFormat) {
		t.Errorf("err = %v, want UNKNOWN_FORMAT", err)
	}
}

func TestConverters_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGraph(t)
		for _, f := range Formats {
			first, err := Convert(f, g, Options{})
			if err != nil {
				t.Fatalf("%s: %v", f, err)
			}
			second, _ := Convert(f, g.Clone(), Options{})
			if string(first) != string(second) {
				t.Fatalf("%s output differs between runs", f)
			}
		}
	})
}

func genGraph(t *rapid.T) *flowchart.Graph {
	n := rapid.IntRange(1, 8).Draw(t, "n")
	types := []string{"start", "end", "process", "decision", "data", "document", "", "custom"}
	g := &flowchart.Graph{ID: rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "id")}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, flowchart.Node{
			ID:    fmt.Sprintf("n%d", i),
			Label: rapid.String().Draw(t, "label"),
			Type:  rapid.SampledFrom(types).Draw(t, "type"),
		})
	}
	m := rapid.IntRange(0, 10).Draw(t, "m")
	for i := 0; i < m; i++ {
		g.Edges = append(g.Edges, flowchart.Edge{
			From:  fmt.Sprintf("n%d", rapid.IntRange(0, n-1).Draw(t, "from")),
			To:    fmt.Sprintf("n%d", rapid.IntRange(0, n-1).Draw(t, "to")),
			Label: rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "elabel"),
		})
	}
	return g
}
