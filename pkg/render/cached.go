package render

import (
	"context"
	"time"

	"github.com/matzehuels/flowbench/pkg/cache"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/observability"
)

type cached struct {
	Renderer
	cache   cache.Cache
	ttl     time.Duration
	variant string
}

// Cached memoizes r's artifacts in c, keyed by the graph's content hash,
// backend name and extension. variant distinguishes option sets that change
// the output for the same backend. Cache errors degrade to a plain render.
func Cached(r Renderer, c cache.Cache, ttl time.Duration, variant string) Renderer {
	if c == nil {
		return r
	}
	return &cached{Renderer: r, cache: c, ttl: ttl, variant: variant}
}

func (c *cached) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	key := cache.ArtifactKey(flowchart.Hash(g), cache.ArtifactKeyOpts{
		Backend: c.Name(),
		Format:  c.Ext(),
		Variant: c.variant,
	})
	hooks := observability.Cache()

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, c.Name())
		return data, nil
	}
	hooks.OnCacheMiss(ctx, c.Name())

	data, err := c.Renderer.Render(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		hooks.OnCacheSet(ctx, c.Name(), len(data))
	}
	return data, nil
}
