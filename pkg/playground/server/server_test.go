package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/observability"
	"github.com/matzehuels/flowbench/pkg/playground"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	sess, err := playground.NewSession(playground.Options{})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(sess, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestAPI(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"index", "GET", "/", "", 200, "Customer Onboarding Workflow"},
		{"static", "GET", "/static/playground.js", "", 200, "cytoscape"},
		{"session", "GET", "/api/session", "", 200, `"dataset":"workflow"`},
		{"datasets", "GET", "/api/datasets", "", 200, `"complexNoGroups"`},
		{"layouts", "GET", "/api/layouts", "", 200, `"breadthfirst"`},
		{"node info", "GET", "/api/nodes/start", "", 200, `"connections":"0 in, 1 out"`},
		{"unknown node", "GET", "/api/nodes/ghost", "", 404, `"code":"UNKNOWN_NODE"`},
		{"set layout", "PUT", "/api/layout/cola", "", 200, `"edgeLength":150`},
		{"unknown layout", "PUT", "/api/layout/spring", "", 404, "UNKNOWN_LAYOUT"},
		{"zoom in", "POST", "/api/zoom/in", "", 200, `"zoom":1.2`},
		{"zoom fit", "POST", "/api/zoom/fit", "", 200, `"zoom":1`},
		{"zoom bad", "POST", "/api/zoom/sideways", "", 404, ""},
		{"convert", "GET", "/api/convert/dot", "", 200, `digraph "workflow"`},
		{"convert unknown", "GET", "/api/convert/svg", "", 404, "UNKNOWN_FORMAT"},
		{"event", "POST", "/api/events", `{"kind":"node_selected","nodeId":"start"}`, 204, ""},
		{"event unknown node", "POST", "/api/events", `{"kind":"node_hovered","nodeId":"ghost"}`, 404, ""},
		{"event bad json", "POST", "/api/events", `{`, 400, ""},
		{"elements missing", "POST", "/api/elements", `{"nodes":[]}`, 400, `JSON must contain an \"elements\" array`},
		{"elements dangling", "POST", "/api/elements", `{"elements":[{"group":"edges","data":{"source":"a","target":"b"}}]}`, 400, "DANGLING_EDGE_REFERENCE"},
		{"elements parent cycle", "POST", "/api/elements", `{"elements":[{"group":"nodes","data":{"id":"a","parent":"b"}},{"group":"nodes","data":{"id":"b","parent":"a"}}]}`, 400, "CYCLIC_PARENT_CHAIN"},
		{"elements own parent", "POST", "/api/elements", `{"elements":[{"group":"nodes","data":{"id":"c","parent":"c"}}]}`, 400, "CYCLIC_PARENT_CHAIN"},
		{"elements", "POST", "/api/elements", `{"elements":[{"group":"nodes","data":{"id":"solo"}}]}`, 200, `"id":"solo"`},
		{"load dataset", "POST", "/api/datasets/system", "", 200, `"dataset":"system"`},
		{"unknown dataset", "POST", "/api/datasets/nope", "", 404, "UNKNOWN_DATASET"},
		{"view unpublished", "GET", "/view/nothing", "", 404, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if tt.want != "" && !strings.Contains(string(body), tt.want) {
				t.Errorf("body missing %q:\n%.300s", tt.want, body)
			}
		})
	}
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp, body := do(t, "GET", ts.URL+"/api/export", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, `filename="cytoscape-graph-`) || !strings.HasSuffix(cd, `.json"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if _, err := playground.ParseElements(body); err != nil {
		t.Errorf("export does not re-import: %v", err)
	}
}

func TestExportExamples(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp, body := do(t, "GET", ts.URL+"/api/export/examples", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d:\n%s", resp.StatusCode, body)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="workflow.examples.json"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	set, err := flowchart.ReadExamples(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := set.Get("workflow")
	if !ok || e.Err != nil {
		t.Fatalf("workflow entry = %+v", e)
	}
	if err := flowchart.Validate(e.Graph); err != nil {
		t.Errorf("exported graph invalid: %v", err)
	}
	if e.Graph.Node("start") == nil || e.Graph.Node("start").Type != "start" {
		t.Errorf("start node = %+v", e.Graph.Node("start"))
	}
}

func TestPublish_UnsafeIDs(t *testing.T) {
	srv, ts := newTestServer(t, Options{})
	for _, id := range []string{"what?", "a#b", "50%off", "with space", "ünï"} {
		t.Run(id, func(t *testing.T) {
			url, unpublish := srv.Publish(&flowchart.Graph{ID: id, Nodes: []flowchart.Node{{ID: "a"}}})
			defer unpublish()
			path := url[strings.Index(url, "/view/"):]
			resp, body := do(t, "GET", ts.URL+path, "")
			if resp.StatusCode != 200 {
				t.Errorf("GET %s = %d:\n%s", path, resp.StatusCode, body)
			}
		})
	}
}

func TestTokenSlug(t *testing.T) {
	tests := map[string]string{
		"mini":       "mini",
		"loan-v2_a":  "loan-v2_a",
		"what?":      "what_",
		"50%off":     "50_off",
		"with space": "with_space",
		"":           "graph",
	}
	for id, want := range tests {
		if got := tokenSlug(id); got != want {
			t.Errorf("tokenSlug(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestPublish(t *testing.T) {
	srv, ts := newTestServer(t, Options{})
	g := &flowchart.Graph{
		ID:    "mini",
		Nodes: []flowchart.Node{{ID: "a", Type: "start"}, {ID: "b", Type: "end"}},
		Edges: []flowchart.Edge{{From: "a", To: "b"}},
	}

	url, unpublish := srv.Publish(g)
	g.Nodes = append(g.Nodes, flowchart.Node{ID: "late"})
	path := url[strings.Index(url, "/view/"):]
	token := strings.TrimPrefix(path, "/view/")
	if !strings.HasPrefix(token, "mini-") {
		t.Errorf("token = %q", token)
	}

	resp, body := do(t, "GET", ts.URL+path, "")
	if resp.StatusCode != 200 || !strings.Contains(string(body), token) {
		t.Errorf("view = %d:\n%s", resp.StatusCode, body)
	}

	resp, body = do(t, "GET", ts.URL+"/api/graphs/"+token, "")
	if resp.StatusCode != 200 {
		t.Fatalf("graph status = %d", resp.StatusCode)
	}
	var doc struct {
		Elements []playground.Element `json:"elements"`
		Layout   playground.Layout    `json:"layout"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Elements) != 3 || doc.Layout.Name != "dagre" {
		t.Errorf("doc = %+v", doc)
	}

	unpublish()
	if resp, _ := do(t, "GET", ts.URL+path, ""); resp.StatusCode != 404 {
		t.Errorf("after unpublish status = %d", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	prom := observability.NewPrometheusHooks("flowbench")
	prom.Install()

	srv, ts := newTestServer(t, Options{Metrics: prom.Handler()})
	_ = srv.Session().Dispatch(context.Background(), playground.Event{Kind: playground.NodeSelected, NodeID: "start"})

	resp, body := do(t, "GET", ts.URL+"/metrics", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `flowbench_playground_events_total{kind="node_selected",status="ok"} 1`) {
		t.Errorf("metrics missing event counter:\n%.500s", body)
	}
}

func TestNoMetricsRoute(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	if resp, _ := do(t, "GET", ts.URL+"/metrics", ""); resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func readState(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebsocket(t *testing.T) {
	srv, ts := newTestServer(t, Options{})
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg := readState(t, conn)
	if msg.Type != MessageState || msg.State == nil || msg.State.Dataset != "workflow" {
		t.Fatalf("initial message = %+v", msg)
	}

	ev := playground.Event{Kind: playground.NodeSelected, NodeID: "start"}
	if err := conn.WriteJSON(Message{Type: MessageEvent, Event: &ev}); err != nil {
		t.Fatal(err)
	}
	msg = readState(t, conn)
	if msg.State == nil || msg.State.Selected != "start" {
		t.Fatalf("after select = %+v", msg)
	}
	if srv.Session().State().Selected != "start" {
		t.Error("session not updated")
	}

	bad := playground.Event{Kind: playground.NodeSelected, NodeID: "ghost"}
	_ = conn.WriteJSON(Message{Type: MessageEvent, Event: &bad})
	msg = readState(t, conn)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "ghost") {
		t.Errorf("error message = %+v", msg)
	}

	// Changes made over HTTP reach the socket too.
	do(t, "PUT", ts.URL+"/api/layout/circle", "")
	msg = readState(t, conn)
	if msg.State == nil || msg.State.Layout.Name != "circle" {
		t.Errorf("broadcast = %+v", msg)
	}
}

func TestStart(t *testing.T) {
	sess, err := playground.NewSession(playground.Options{})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(sess, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base, err := srv.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.HasPrefix(base, "http://127.0.0.1:") {
		t.Errorf("base = %q", base)
	}

	url, unpublish := srv.Publish(&flowchart.Graph{ID: "g", Nodes: []flowchart.Node{{ID: "a"}}})
	defer unpublish()
	if !strings.HasPrefix(url, base+"/view/g-") {
		t.Errorf("url = %q", url)
	}
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if err := srv.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeUnknownNode:    404,
		errors.ErrCodeMalformedInput: 400,
		errors.ErrCodeDanglingEdge:   400,
		errors.ErrCodeRenderFailed:   500,
		"":                           500,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}
}
