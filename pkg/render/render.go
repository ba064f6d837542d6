package render

import (
	"context"

	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// Renderer produces one artifact for a graph.
type Renderer interface {
	// Name is the backend name used for output directories and logs.
	Name() string
	// Ext is the artifact file extension without the dot.
	Ext() string
	// Render returns the artifact bytes. The graph must already be valid.
	Render(ctx context.Context, g *flowchart.Graph) ([]byte, error)
}

// Backend names.
const (
	BackendGraphviz  = "graphviz"
	BackendDOT       = "dot"
	BackendD2        = "d2"
	BackendELK       = "elk"
	BackendTala      = "tala"
	BackendGraphML   = "graphml"
	BackendELKJSON   = "elkjson"
	BackendCanvas    = "canvas"
	BackendCanvasSVG = "canvas-svg"
	BackendBrowser   = "browser"
)
