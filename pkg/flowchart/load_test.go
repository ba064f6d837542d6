package flowchart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowbench/pkg/errors"
)

const examplesDoc = `{
  "zeta": {"nodes": [{"id": "a"}], "edges": []},
  "Mini": {
    "nodes": [{"id": "a", "type": "start"}, {"id": "b", "type": "end", "label": "Done"}],
    "edges": [{"from": "a", "to": "b", "label": "go"}]
  },
  "noEdges": {"nodes": [{"id": "a"}]},
  "broken": {"nodes": "not-an-array", "edges": []}
}`

func TestReadExamples(t *testing.T) {
	set, err := ReadExamples(strings.NewReader(examplesDoc))
	if err != nil {
		t.Fatalf("ReadExamples() error: %v", err)
	}

	want := []string{"Mini", "broken", "noEdges", "zeta"}
	if got := set.IDs(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("IDs() = %v, want %v (sorted)", got, want)
	}

	mini, ok := set.Get("Mini")
	if !ok || mini.Err != nil {
		t.Fatalf("Get(Mini) = %+v, %v", mini, ok)
	}
	if mini.Graph.ID != "Mini" {
		t.Errorf("graph id = %q, want key", mini.Graph.ID)
	}
	if mini.Graph.NodeCount() != 2 || mini.Graph.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", mini.Graph.NodeCount(), mini.Graph.EdgeCount())
	}
	if got := mini.Graph.Node("b").DisplayLabel(); got != "Done" {
		t.Errorf("label = %q, want Done", got)
	}
	if got := mini.Graph.Node("a").DisplayLabel(); got != "a" {
		t.Errorf("label fallback = %q, want a", got)
	}
	if mini.Graph.Edges[0].Label != "go" {
		t.Errorf("edge label = %q, want go", mini.Graph.Edges[0].Label)
	}

	for _, id := range []string{"broken", "noEdges"} {
		e, _ := set.Get(id)
		if e.Graph != nil {
			t.Errorf("%s: graph should be nil", id)
		}
		if !errors.Is(e.Err, errors.ErrCodeMalformedInput) {
			t.Errorf("%s: err = %v, want %s", id, e.Err, errors.ErrCodeMalformedInput)
		}
	}

	if got := len(set.Graphs()); got != 2 {
		t.Errorf("Graphs() len = %d, want 2", got)
	}
}

func TestReadExamples_NotAnObject(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `{"a":`, `"text"`} {
		if _, err := ReadExamples(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("ReadExamples(%q) = %v, want %s", doc, err, errors.ErrCodeMalformedInput)
		}
	}
}

func TestExampleSet_Find(t *testing.T) {
	set, err := ReadExamples(strings.NewReader(examplesDoc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query  string
		wantID string
		found  bool
	}{
		{"Mini", "Mini", true},
		{"mini", "Mini", true},
		{"ZETA", "zeta", true},
		{"nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e, ok := set.Find(tt.query)
			if ok != tt.found || e.ID != tt.wantID {
				t.Errorf("Find(%q) = %q, %v; want %q, %v", tt.query, e.ID, ok, tt.wantID, tt.found)
			}
		})
	}
}

func TestLoadExamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "examples.json")
	if err := os.WriteFile(path, []byte(examplesDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadExamples(path)
	if err != nil {
		t.Fatalf("LoadExamples() error: %v", err)
	}
	if set.Len() != 4 {
		t.Errorf("Len() = %d, want 4", set.Len())
	}

	if _, err := LoadExamples(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadExamples(missing) should fail")
	}
}

func TestWriteExamples_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExamples(&buf, []*Graph{mini()}); err != nil {
		t.Fatal(err)
	}
	set, err := ReadExamples(&buf)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := set.Get("mini")
	if !ok || e.Err != nil {
		t.Fatalf("round trip lost mini: %+v", e)
	}
	if !bytes.Equal(Canonical(e.Graph), Canonical(mini())) {
		t.Errorf("round trip = %s, want %s", Canonical(e.Graph), Canonical(mini()))
	}
}

func TestGraph_Degree(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "g"}, {ID: "c", Parent: "g"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "b"}, {From: "c", To: "b"}},
	}
	in, out := g.Degree("b")
	if in != 3 || out != 1 {
		t.Errorf("Degree(b) = %d in, %d out; want 3, 1", in, out)
	}
	if !g.IsCompound("g") || g.IsCompound("a") || g.IsCompound("") {
		t.Error("IsCompound mismatch")
	}
	if kids := g.Children("g"); len(kids) != 1 || kids[0] != "c" {
		t.Errorf("Children(g) = %v", kids)
	}
}
