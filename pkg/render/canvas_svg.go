package render

import (
	"bytes"
	"context"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// CanvasSVG draws the same grid layout as [Canvas] as an SVG document.
type CanvasSVG struct {
	opts CanvasOptions
}

// NewCanvasSVG returns the canvas SVG backend.
func NewCanvasSVG(opts CanvasOptions) *CanvasSVG {
	return &CanvasSVG{opts: opts.withDefaults()}
}

func (r *CanvasSVG) Name() string { return BackendCanvasSVG }
func (r *CanvasSVG) Ext() string  { return "svg" }

func (r *CanvasSVG) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout := layoutGrid(g, r.opts)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:"+colorBackground)

	grid := fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:5,5", colorGridLine)
	for x := 0; x < layout.Width; x += gridCellWidth {
		canvas.Line(x, 0, x, layout.Height, grid)
	}
	for y := 0; y < layout.Height; y += gridCellHeight {
		canvas.Line(0, y, layout.Width, y, grid)
	}

	for _, e := range layout.Edges {
		canvas.Line(int(e.X1), int(e.Y1), int(e.X2), int(e.Y2), fmt.Sprintf("stroke:%s;stroke-width:2", colorEdge))
		canvas.Polygon(
			[]int{int(e.Arrow[0][0]), int(e.Arrow[1][0]), int(e.Arrow[2][0])},
			[]int{int(e.Arrow[0][1]), int(e.Arrow[1][1]), int(e.Arrow[2][1])},
			"fill:"+colorEdge,
		)
	}

	for _, n := range layout.Nodes {
		canvas.Rect(int(n.CX-n.W/2), int(n.CY-n.H/2), int(n.W), int(n.H),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", n.Fill, n.Stroke, n.Border))
		canvas.Text(int(n.CX), int(n.CY), n.Label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:Arial;font-weight:bold;text-anchor:middle;dominant-baseline:middle", colorLabel))
	}

	canvas.Text(10, 22, layout.Stats, fmt.Sprintf("fill:%s;font-size:12px;font-family:Arial", colorStats))
	canvas.End()
	return buf.Bytes(), nil
}
