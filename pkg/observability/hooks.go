// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. Binaries register real implementations at startup, so library
// packages never import a metrics backend directly.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    prom := observability.NewPrometheusHooks("flowbench")
//	    observability.SetRenderHooks(prom)
//	    observability.SetCacheHooks(prom)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, backend, graphID)
//	// ... render ...
//	observability.Render().OnRenderComplete(ctx, backend, graphID, len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from render invokers.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, backend, graphID string)
	OnRenderComplete(ctx context.Context, backend, graphID string, size int, duration time.Duration, err error)

	// OnBreakerStateChange records a circuit breaker transition, with states
	// named "closed", "half-open" or "open".
	OnBreakerStateChange(backend, from, to string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the artifact cache.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, backend string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, backend string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// Playground Hooks
// =============================================================================

// PlaygroundHooks receives events from playground sessions.
type PlaygroundHooks interface {
	// OnEvent records a dispatched session event by kind.
	OnEvent(ctx context.Context, kind string, err error)

	// OnClients records the current number of connected websocket clients.
	OnClients(n int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRenderHooks) OnBreakerStateChange(string, string, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPlaygroundHooks is a no-op implementation of PlaygroundHooks.
type NoopPlaygroundHooks struct{}

func (NoopPlaygroundHooks) OnEvent(context.Context, string, error) {}
func (NoopPlaygroundHooks) OnClients(int)                          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks     RenderHooks     = NoopRenderHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	playgroundHooks PlaygroundHooks = NoopPlaygroundHooks{}
	hooksMu         sync.RWMutex
)

// SetRenderHooks registers render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetPlaygroundHooks registers playground hooks. Nil is ignored.
func SetPlaygroundHooks(h PlaygroundHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playgroundHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Playground returns the registered playground hooks.
func Playground() PlaygroundHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playgroundHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	playgroundHooks = NoopPlaygroundHooks{}
}
