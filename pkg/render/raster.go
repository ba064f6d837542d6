package render

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// ToPNG converts SVG bytes to PNG using rsvg-convert at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return runTool(ctx, "rsvg-convert", svg, "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
}

type rasterized struct {
	Renderer
	scale float64
}

// Rasterize converts an SVG-producing renderer's output to PNG. Renderers
// with another extension are returned unchanged.
func Rasterize(r Renderer, scale float64) Renderer {
	if r.Ext() != "svg" {
		return r
	}
	if scale <= 0 {
		scale = 1
	}
	return &rasterized{Renderer: r, scale: scale}
}

func (r *rasterized) Ext() string { return "png" }

func (r *rasterized) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	svg, err := r.Renderer.Render(ctx, g)
	if err != nil {
		return nil, err
	}
	return ToPNG(ctx, svg, r.scale)
}
