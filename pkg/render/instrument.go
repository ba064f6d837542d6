package render

import (
	"context"
	"time"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/observability"
)

type instrumented struct {
	Renderer
}

// Instrument reports every render of r to the registered render hooks.
func Instrument(r Renderer) Renderer {
	return &instrumented{Renderer: r}
}

func (i *instrumented) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, i.Name(), g.ID)
	start := time.Now()
	data, err := i.Renderer.Render(ctx, g)
	hooks.OnRenderComplete(ctx, i.Name(), g.ID, len(data), time.Since(start), err)
	return data, err
}
