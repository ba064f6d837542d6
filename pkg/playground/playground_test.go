package playground

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Options{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestDatasets(t *testing.T) {
	tests := []struct {
		name         string
		nodes, edges int
		grouped      bool
	}{
		{"workflow", 13, 12, false},
		{"organization", 21, 20, false},
		{"system", 26, 26, true},
		{"complex", 18, 17, true},
		{"complexNoGroups", 14, 17, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := Dataset(tt.name)
			if err != nil {
				t.Fatalf("Dataset: %v", err)
			}
			var nodes, edges int
			grouped := false
			for _, e := range els {
				if e.IsNode() {
					nodes++
					grouped = grouped || e.Data.Parent != ""
				} else {
					edges++
				}
			}
			if nodes != tt.nodes || edges != tt.edges || grouped != tt.grouped {
				t.Errorf("nodes=%d edges=%d grouped=%v", nodes, edges, grouped)
			}
			if err := checkElements(els); err != nil {
				t.Errorf("dataset does not resolve: %v", err)
			}
			if err := flowchart.Validate(ToGraph(tt.name, els)); err != nil {
				t.Errorf("converted graph invalid: %v", err)
			}
			if DatasetTitles[tt.name] == "" {
				t.Error("missing menu title")
			}
		})
	}

	if _, err := Dataset("nope"); !errors.Is(err, errors.ErrCodeUnknownDataset) {
		t.Errorf("err = %v, want UNKNOWN_DATASET", err)
	}
}

func TestLayoutPreset(t *testing.T) {
	for _, name := range LayoutNames {
		l, err := LayoutPreset(name)
		if err != nil || l.Name != name || !l.Fit || l.Padding != 50 {
			t.Errorf("LayoutPreset(%q) = %+v, %v", name, l, err)
		}
	}

	dagre, _ := LayoutPreset("dagre")
	if dagre.RankDir != "TB" || dagre.SpacingFactor != 1.5 {
		t.Errorf("dagre = %+v", dagre)
	}
	cola, _ := LayoutPreset("cola")
	if cola.NodeSpacing != 50 || cola.EdgeLength != 150 || cola.Randomize == nil || *cola.Randomize {
		t.Errorf("cola = %+v", cola)
	}
	grid, _ := LayoutPreset("grid")
	if grid.Rows != 3 {
		t.Errorf("grid rows = %d", grid.Rows)
	}

	if _, err := LayoutPreset("spring"); !errors.Is(err, errors.ErrCodeUnknownLayout) {
		t.Errorf("err = %v, want UNKNOWN_LAYOUT", err)
	}
}

func TestNewSession(t *testing.T) {
	s := newSession(t)
	st := s.State()
	if st.ID == "" || st.Dataset != "workflow" || st.Layout.Name != "dagre" || st.Zoom != 1 {
		t.Errorf("state = %+v", st)
	}

	if _, err := NewSession(Options{Dataset: "nope"}); !errors.Is(err, errors.ErrCodeUnknownDataset) {
		t.Errorf("err = %v", err)
	}
	if _, err := NewSession(Options{Layout: "nope"}); !errors.Is(err, errors.ErrCodeUnknownLayout) {
		t.Errorf("err = %v", err)
	}
}

func TestDispatch_Selection(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	tests := []struct {
		name    string
		ev      Event
		wantSel string
		wantHov string
		code    errors.Code
	}{
		{"select", Event{Kind: NodeSelected, NodeID: "start"}, "start", "", ""},
		{"hover", Event{Kind: NodeHovered, NodeID: "complete"}, "start", "complete", ""},
		{"unknown node", Event{Kind: NodeSelected, NodeID: "ghost"}, "start", "complete", errors.ErrCodeUnknownNode},
		{"clear hover", Event{Kind: NodeHovered}, "start", "", ""},
		{"clear selection", Event{Kind: NodeSelected}, "", "", ""},
		{"unknown kind", Event{Kind: "pan"}, "", "", errors.ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		err := s.Dispatch(ctx, tt.ev)
		if tt.code != "" {
			if !errors.Is(err, tt.code) {
				t.Errorf("%s: err = %v, want %s", tt.name, err, tt.code)
			}
		} else if err != nil {
			t.Errorf("%s: %v", tt.name, err)
		}
		st := s.State()
		if st.Selected != tt.wantSel || st.Hovered != tt.wantHov {
			t.Errorf("%s: selected=%q hovered=%q", tt.name, st.Selected, st.Hovered)
		}
	}
}

func TestDispatch_GraphReplaced(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	_ = s.SetLayout("circle")
	s.ZoomIn()
	_ = s.Dispatch(ctx, Event{Kind: NodeSelected, NodeID: "start"})

	if err := s.LoadDataset(ctx, "organization"); err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	st := s.State()
	if st.Dataset != "organization" || st.Selected != "" || st.Layout.Name != "dagre" || st.Zoom != 1 {
		t.Errorf("state after replace = %+v", st)
	}

	bad := []Element{{Group: GroupEdges, Data: ElementData{Source: "a", Target: "b"}}}
	if err := s.Dispatch(ctx, Event{Kind: GraphReplaced, Elements: bad}); !errors.Is(err, errors.ErrCodeDanglingEdge) {
		t.Errorf("err = %v, want DANGLING_EDGE_REFERENCE", err)
	}
	if s.State().Dataset != "organization" {
		t.Error("rejected replace must not change the graph")
	}
}

func TestSubscribe(t *testing.T) {
	s := newSession(t)
	var (
		mu       sync.Mutex
		versions []int
	)
	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, st.Version)
	})

	_ = s.SetLayout("grid")
	s.ZoomIn()
	_ = s.Dispatch(context.Background(), Event{Kind: NodeSelected}) // no change
	unsubscribe()
	s.ZoomOut()

	mu.Lock()
	defer mu.Unlock()
	if len(versions) != 2 || versions[0] != 1 || versions[1] != 2 {
		t.Errorf("versions = %v, want [1 2]", versions)
	}
}

func TestZoom(t *testing.T) {
	s := newSession(t)
	if z := s.ZoomIn(); z != 1.2 {
		t.Errorf("ZoomIn = %v", z)
	}
	if z := s.ZoomOut(); z < 0.959 || z > 0.961 {
		t.Errorf("ZoomOut = %v, want 0.96", z)
	}
	for i := 0; i < 20; i++ {
		s.ZoomIn()
	}
	if z := s.Zoom(); z != MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", z, MaxZoom)
	}
	for i := 0; i < 40; i++ {
		s.ZoomOut()
	}
	if z := s.Zoom(); z != MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", z, MinZoom)
	}
	if z := s.Fit(); z != 1 {
		t.Errorf("Fit = %v", z)
	}
}

func TestNodeInfo(t *testing.T) {
	s := newSession(t)

	info, err := s.NodeInfo("check_duplicates")
	if err != nil {
		t.Fatal(err)
	}
	if info.Connections != "1 in, 2 out" || info.Type != "decision" || info.Group != "none" || info.Status != "active" {
		t.Errorf("info = %+v", info)
	}

	if err := s.LoadDataset(context.Background(), "system"); err != nil {
		t.Fatal(err)
	}
	info, _ = s.NodeInfo("client_layer")
	if info.Type != "standard" || info.Title != "Client Applications" {
		t.Errorf("container info = %+v", info)
	}
	info, _ = s.NodeInfo("web_app")
	if info.Group != "client_layer" {
		t.Errorf("group = %q", info.Group)
	}

	if _, err := s.NodeInfo("ghost"); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Errorf("err = %v", err)
	}
}

func TestParseElements(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"valid", `{"elements": [{"group": "nodes", "data": {"id": "a"}}, {"group": "nodes", "data": {"id": "b"}}, {"group": "edges", "data": {"source": "a", "target": "b"}}]}`, ""},
		{"empty", `{"elements": []}`, ""},
		{"missing elements", `{"nodes": []}`, errors.ErrCodeMalformedInput},
		{"elements not array", `{"elements": {}}`, errors.ErrCodeMalformedInput},
		{"not json", `{`, errors.ErrCodeMalformedInput},
		{"node without id", `{"elements": [{"group": "nodes", "data": {}}]}`, errors.ErrCodeMalformedInput},
		{"dangling edge", `{"elements": [{"group": "nodes", "data": {"id": "a"}}, {"group": "edges", "data": {"source": "a", "target": "z"}}]}`, errors.ErrCodeDanglingEdge},
		{"duplicate", `{"elements": [{"group": "nodes", "data": {"id": "a"}}, {"group": "nodes", "data": {"id": "a"}}]}`, errors.ErrCodeDuplicateNodeID},
		{"bad group", `{"elements": [{"group": "things", "data": {"id": "a"}}]}`, errors.ErrCodeMalformedInput},
		{"parent cycle", `{"elements": [{"group": "nodes", "data": {"id": "a", "parent": "b"}}, {"group": "nodes", "data": {"id": "b", "parent": "a"}}]}`, errors.ErrCodeCyclicParent},
		{"own parent", `{"elements": [{"group": "nodes", "data": {"id": "c", "parent": "c"}}]}`, errors.ErrCodeCyclicParent},
		{"nested parents", `{"elements": [{"group": "nodes", "data": {"id": "outer"}}, {"group": "nodes", "data": {"id": "inner", "parent": "outer"}}, {"group": "nodes", "data": {"id": "leaf", "parent": "inner"}}]}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseElements([]byte(tt.doc))
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyJSON_RejectsParentCycle(t *testing.T) {
	s := newSession(t)
	before := s.State()
	doc := `{"elements": [
		{"group": "nodes", "data": {"id": "a", "parent": "b"}},
		{"group": "nodes", "data": {"id": "b", "parent": "a"}},
		{"group": "nodes", "data": {"id": "c", "parent": "c"}}
	]}`
	if err := s.ApplyJSON(context.Background(), []byte(doc)); !errors.Is(err, errors.ErrCodeCyclicParent) {
		t.Fatalf("err = %v, want CYCLIC_PARENT_CHAIN", err)
	}
	if after := s.State(); after.Version != before.Version || after.Dataset != before.Dataset {
		t.Error("rejected document must leave the session unchanged")
	}

	err := s.Dispatch(context.Background(), Event{Kind: GraphReplaced, Elements: []Element{
		{Group: "nodes", Data: ElementData{ID: "c", Parent: "c"}},
	}})
	if !errors.Is(err, errors.ErrCodeCyclicParent) {
		t.Errorf("dispatch err = %v, want CYCLIC_PARENT_CHAIN", err)
	}
}

func TestExportImport(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s, err := NewSession(Options{Dataset: "complex", Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatal(err)
	}

	data, name, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	if name != "cytoscape-graph-2024-05-01T09-30-00.json" {
		t.Errorf("filename = %q", name)
	}
	if !strings.HasPrefix(string(data), "{\n  \"elements\": [") {
		t.Errorf("export not indented:\n%.60s", data)
	}

	other := newSession(t)
	if err := other.ApplyJSON(context.Background(), data); err != nil {
		t.Fatalf("ApplyJSON: %v", err)
	}
	if got, want := len(other.State().Elements), len(s.State().Elements); got != want {
		t.Errorf("imported %d elements, want %d", got, want)
	}
	info, err := other.NodeInfo("kafka_stream")
	if err != nil || info.Group != "group_ingestion" {
		t.Errorf("imported node = %+v, %v", info, err)
	}
}

func TestToGraph(t *testing.T) {
	els, _ := Dataset("workflow")
	g := ToGraph("workflow", els)

	if g.Node("start").Type != "start" {
		t.Errorf("start type = %q", g.Node("start").Type)
	}
	if g.Node("complete").Type != "end" {
		t.Errorf("complete type = %q", g.Node("complete").Type)
	}
	if g.Node("collect_info").Label != "Collect Customer Information" {
		t.Errorf("label = %q", g.Node("collect_info").Label)
	}
	if len(g.Edges) != 12 {
		t.Errorf("edges = %d", len(g.Edges))
	}
}

func TestFromGraph(t *testing.T) {
	g := &flowchart.Graph{
		ID: "g",
		Nodes: []flowchart.Node{
			{ID: "grp", Label: "Group"},
			{ID: "a", Type: "start", Parent: "grp"},
			{ID: "b", Type: "document"},
		},
		Edges: []flowchart.Edge{{From: "a", To: "b", Label: "next"}},
	}
	els := FromGraph(g)
	if len(els) != 4 {
		t.Fatalf("elements = %d", len(els))
	}
	if els[0].Data.NodeType != "" || els[0].Data.Label != "Group" {
		t.Errorf("container = %+v", els[0])
	}
	if els[1].Classes != ClassTerminal || els[1].Data.Parent != "grp" {
		t.Errorf("terminal = %+v", els[1])
	}
	if els[2].Classes != "" || els[2].Data.NodeType != "document" {
		t.Errorf("document = %+v", els[2])
	}
	if e := els[3]; e.Data.ID != "e0" || e.Data.Source != "a" || e.Data.Label != "next" {
		t.Errorf("edge = %+v", e)
	}
	if err := checkElements(els); err != nil {
		t.Errorf("round trip elements invalid: %v", err)
	}
}

func TestElementClass(t *testing.T) {
	tests := map[string]string{
		"start": ClassTerminal, "end": ClassTerminal, "terminal": ClassTerminal,
		"process": ClassProcess, "decision": ClassDecision, "data": ClassData,
		"document": "", "": "", "user": "",
	}
	for typ, want := range tests {
		if got := ElementClass(typ); got != want {
			t.Errorf("ElementClass(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestSession_Concurrent(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					_ = s.Dispatch(ctx, Event{Kind: NodeSelected, NodeID: "start"})
				case 1:
					s.ZoomIn()
				case 2:
					_, _ = s.NodeInfo("start")
				case 3:
					_ = s.State()
				}
			}
		}(i)
	}
	wg.Wait()
}
