package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

// Grid geometry shared by the canvas renderers.
const (
	gridCellWidth  = 180
	gridCellHeight = 100
	gridPadding    = 20
	gridNodeInset  = 20
	arrowSize      = 10
	maxLabelRunes  = 22
)

// Grid colors.
const (
	colorBackground = "#fafafa"
	colorGridLine   = "#e2e8f0"
	colorEdge       = "#666666"
	colorLabel      = "#000000"
	colorStats      = "#666666"
)

// CanvasOptions configures the canvas renderers.
type CanvasOptions struct {
	// Width and Height of the image. Zero uses 1200x800.
	Width  int
	Height int
	// Styles resolves node fills. Nil uses style.Default().
	Styles *style.Resolver
}

func (o CanvasOptions) withDefaults() CanvasOptions {
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.Styles == nil {
		o.Styles = style.Default()
	}
	return o
}

type gridNode struct {
	Label  string
	CX, CY float64
	W, H   float64
	Fill   string
	Stroke string
	Border float64
}

type gridEdge struct {
	X1, Y1, X2, Y2 float64
	// Arrow is the arrowhead triangle, tip first.
	Arrow [3][2]float64
}

type gridLayout struct {
	Width, Height int
	Nodes         []gridNode
	Edges         []gridEdge
	Stats         string
}

// layoutGrid places nodes row-major in insertion order on a square-ish grid
// of ceil(sqrt(n)) columns. Edges run centre to centre.
func layoutGrid(g *flowchart.Graph, opts CanvasOptions) gridLayout {
	opts = opts.withDefaults()
	out := gridLayout{
		Width:  opts.Width,
		Height: opts.Height,
		Stats:  fmt.Sprintf("Nodes: %d | Edges: %d", len(g.Nodes), len(g.Edges)),
	}

	n := len(g.Nodes)
	if n == 0 {
		return out
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))

	centre := func(idx int) (float64, float64) {
		col, row := idx%cols, idx/cols
		x := gridPadding + float64(col*gridCellWidth) + gridCellWidth/2
		y := gridPadding + float64(row*gridCellHeight) + gridCellHeight/2
		return x, y
	}

	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
		s := opts.Styles.Resolve(node.Type, style.FormatCanvas)
		fill := s.Fill
		if node.Type == "group" || g.IsCompound(node.ID) {
			fill = style.GroupFill
		}
		cx, cy := centre(i)
		out.Nodes = append(out.Nodes, gridNode{
			Label:  truncate(node.DisplayLabel(), maxLabelRunes),
			CX:     cx,
			CY:     cy,
			W:      gridCellWidth - gridNodeInset,
			H:      gridCellHeight - gridNodeInset,
			Fill:   fill,
			Stroke: s.Stroke,
			Border: s.StrokeWidth,
		})
	}

	// Self-loops are counted in Stats but not drawn: the segment would sit
	// under the node box.
	for _, e := range g.Edges {
		if e.IsSelfLoop() {
			continue
		}
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 {
			continue
		}
		x1, y1 := centre(from)
		x2, y2 := centre(to)
		angle := math.Atan2(y2-y1, x2-x1)
		out.Edges = append(out.Edges, gridEdge{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Arrow: [3][2]float64{
				{x2, y2},
				{x2 - arrowSize*math.Cos(angle-math.Pi/6), y2 - arrowSize*math.Sin(angle-math.Pi/6)},
				{x2 - arrowSize*math.Cos(angle+math.Pi/6), y2 - arrowSize*math.Sin(angle+math.Pi/6)},
			},
		})
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// hexColor parses #rgb or #rrggbb. Invalid input yields opaque black.
func hexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return c
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return c
	}
	c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return c
}
