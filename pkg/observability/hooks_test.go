package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "graphviz", "mini")
	r.OnRenderComplete(ctx, "graphviz", "mini", 1024, time.Second, nil)
	r.OnBreakerStateChange("d2", "closed", "open")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graphviz")
	c.OnCacheMiss(ctx, "elk")
	c.OnCacheSet(ctx, "elk", 1024)

	p := NoopPlaygroundHooks{}
	p.OnEvent(ctx, "node_selected", nil)
	p.OnClients(3)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Playground().(NoopPlaygroundHooks); !ok {
		t.Error("Playground() should return NoopPlaygroundHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customPlayground := &testPlaygroundHooks{}
	SetPlaygroundHooks(customPlayground)
	if Playground() != customPlayground {
		t.Error("SetPlaygroundHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks("flowbench_test")

	h.OnRenderComplete(ctx, "graphviz", "a", 100, time.Millisecond, nil)
	h.OnRenderComplete(ctx, "graphviz", "b", 0, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "graphviz")
	h.OnCacheMiss(ctx, "graphviz")
	h.OnBreakerStateChange("d2", "closed", "open")
	h.OnEvent(ctx, "node_selected", nil)
	h.OnClients(2)

	if got := testutil.ToFloat64(h.renders.WithLabelValues("graphviz", "ok")); got != 1 {
		t.Errorf("ok renders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.renders.WithLabelValues("graphviz", "error")); got != 1 {
		t.Errorf("failed renders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.renderBytes.WithLabelValues("graphviz")); got != 100 {
		t.Errorf("render bytes = %v, want 100", got)
	}
	if got := testutil.ToFloat64(h.breakerState.WithLabelValues("d2")); got != 1 {
		t.Errorf("breaker gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.clients); got != 2 {
		t.Errorf("clients = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "flowbench_test_renders_total") {
		t.Errorf("metrics output missing renders_total:\n%s", body)
	}
}

func TestPrometheusHooks_Install(t *testing.T) {
	defer Reset()
	h := NewPrometheusHooks("flowbench_install")
	h.Install()
	if Render() != RenderHooks(h) || Cache() != CacheHooks(h) || Playground() != PlaygroundHooks(h) {
		t.Error("Install should register every hook category")
	}
}

type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testPlaygroundHooks struct{ NoopPlaygroundHooks }
