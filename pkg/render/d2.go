package render

import (
	"context"

	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// D2 layout engines.
const (
	LayoutELK  = "elk"
	LayoutTala = "tala"
)

// D2 renders the D2 conversion of a graph to SVG with the d2 CLI.
// The source is piped through stdin and the SVG read from stdout.
type D2 struct {
	layout  string
	binary  string
	options convert.Options
}

// D2Option configures a D2 renderer.
type D2Option func(*D2)

// WithD2Binary overrides the d2 executable.
func WithD2Binary(path string) D2Option {
	return func(d *D2) {
		if path != "" {
			d.binary = path
		}
	}
}

// WithD2Options sets the converter options used to build the D2 source.
func WithD2Options(opts convert.Options) D2Option {
	return func(d *D2) { d.options = opts }
}

// NewD2 returns a renderer using the given layout engine, which is also the
// backend name.
func NewD2(layout string, opts ...D2Option) *D2 {
	d := &D2{layout: layout, binary: "d2"}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (r *D2) Name() string { return r.layout }
func (r *D2) Ext() string  { return "svg" }

func (r *D2) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	src := convert.ToD2(g, r.options)
	return runTool(ctx, r.binary, []byte(src), "--layout", r.layout, "-", "-")
}
