package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks implements every hook interface on a private registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.CounterVec
	breakerState   *prometheus.GaugeVec
	cacheOps       *prometheus.CounterVec
	events         *prometheus.CounterVec
	clients        prometheus.Gauge
}

// NewPrometheusHooks creates the collectors under namespace and registers
// them together with the Go runtime collectors.
func NewPrometheusHooks(namespace string) *PrometheusHooks {
	registry := prometheus.NewRegistry()

	h := &PrometheusHooks{
		registry: registry,
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of render invocations",
			},
			[]string{"backend", "status"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Render duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		renderBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_bytes_total",
				Help:      "Total bytes of rendered artifacts",
			},
			[]string{"backend"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_open",
				Help:      "1 while the backend circuit breaker is open",
			},
			[]string{"backend"},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Artifact cache operations by result",
			},
			[]string{"backend", "result"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "playground_events_total",
				Help:      "Playground session events by kind",
			},
			[]string{"kind", "status"},
		),
		clients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "playground_clients",
				Help:      "Connected playground websocket clients",
			},
		),
	}

	registry.MustRegister(
		h.renders,
		h.renderDuration,
		h.renderBytes,
		h.breakerState,
		h.cacheOps,
		h.events,
		h.clients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return h
}

// Registry returns the registry holding the collectors.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// Handler serves the registry in the Prometheus text format.
func (h *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{Registry: h.registry})
}

// Install registers h for every hook category.
func (h *PrometheusHooks) Install() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetPlaygroundHooks(h)
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, backend, _ string, size int, d time.Duration, err error) {
	h.renders.WithLabelValues(backend, status(err)).Inc()
	h.renderDuration.WithLabelValues(backend).Observe(d.Seconds())
	if err == nil {
		h.renderBytes.WithLabelValues(backend).Add(float64(size))
	}
}

func (h *PrometheusHooks) OnBreakerStateChange(backend, _, to string) {
	v := 0.0
	if to == "open" {
		v = 1
	}
	h.breakerState.WithLabelValues(backend).Set(v)
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, backend string) {
	h.cacheOps.WithLabelValues(backend, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, backend string) {
	h.cacheOps.WithLabelValues(backend, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, backend string, _ int) {
	h.cacheOps.WithLabelValues(backend, "set").Inc()
}

func (h *PrometheusHooks) OnEvent(_ context.Context, kind string, err error) {
	h.events.WithLabelValues(kind, status(err)).Inc()
}

func (h *PrometheusHooks) OnClients(n int) {
	h.clients.Set(float64(n))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ RenderHooks     = (*PrometheusHooks)(nil)
	_ CacheHooks      = (*PrometheusHooks)(nil)
	_ PlaygroundHooks = (*PrometheusHooks)(nil)
)
