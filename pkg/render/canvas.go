package render

import (
	"bytes"
	"context"
	"image/png"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// Canvas draws the grid fallback layout to a PNG. It needs no external
// tools and serves as the in-house baseline.
type Canvas struct {
	opts CanvasOptions
}

// NewCanvas returns the canvas PNG backend.
func NewCanvas(opts CanvasOptions) *Canvas {
	return &Canvas{opts: opts.withDefaults()}
}

func (r *Canvas) Name() string { return BackendCanvas }
func (r *Canvas) Ext() string  { return "png" }

func (r *Canvas) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout := layoutGrid(g, r.opts)

	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(hexColor(colorBackground))
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawGridLines(dc, layout)

	dc.SetLineWidth(2)
	for _, e := range layout.Edges {
		dc.SetColor(hexColor(colorEdge))
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
		dc.NewSubPath()
		dc.MoveTo(e.Arrow[0][0], e.Arrow[0][1])
		dc.LineTo(e.Arrow[1][0], e.Arrow[1][1])
		dc.LineTo(e.Arrow[2][0], e.Arrow[2][1])
		dc.ClosePath()
		dc.Fill()
	}

	for _, n := range layout.Nodes {
		x, y := n.CX-n.W/2, n.CY-n.H/2
		dc.SetColor(hexColor(n.Fill))
		dc.DrawRectangle(x, y, n.W, n.H)
		dc.Fill()
		dc.SetColor(hexColor(n.Stroke))
		dc.SetLineWidth(n.Border)
		dc.DrawRectangle(x, y, n.W, n.H)
		dc.Stroke()
		dc.SetColor(hexColor(colorLabel))
		dc.DrawStringAnchored(n.Label, n.CX, n.CY, 0.5, 0.5)
	}

	dc.SetColor(hexColor(colorStats))
	dc.DrawStringAnchored(layout.Stats, 10, 10, 0, 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawGridLines(dc *gg.Context, layout gridLayout) {
	dc.SetColor(hexColor(colorGridLine))
	dc.SetLineWidth(1)
	dc.SetDash(5, 5)
	for x := 0; x < layout.Width; x += gridCellWidth {
		dc.DrawLine(float64(x), 0, float64(x), float64(layout.Height))
		dc.Stroke()
	}
	for y := 0; y < layout.Height; y += gridCellHeight {
		dc.DrawLine(0, float64(y), float64(layout.Width), float64(y))
		dc.Stroke()
	}
	dc.SetDash()
}
