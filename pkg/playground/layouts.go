package playground

import (
	"github.com/matzehuels/flowbench/pkg/errors"
)

// Layout is a Cytoscape layout configuration. Zero fields are omitted so
// each preset carries only the options it sets.
type Layout struct {
	Name                        string  `json:"name"`
	RankDir                     string  `json:"rankDir,omitempty"`
	Directed                    bool    `json:"directed,omitempty"`
	Animate                     bool    `json:"animate"`
	AnimationDuration           int     `json:"animationDuration,omitempty"`
	Fit                         bool    `json:"fit"`
	Padding                     int     `json:"padding"`
	NodeDimensionsIncludeLabels bool    `json:"nodeDimensionsIncludeLabels,omitempty"`
	SpacingFactor               float64 `json:"spacingFactor,omitempty"`
	Randomize                   *bool   `json:"randomize,omitempty"`
	NodeSpacing                 int     `json:"nodeSpacing,omitempty"`
	EdgeLength                  int     `json:"edgeLength,omitempty"`
	Rows                        int     `json:"rows,omitempty"`
}

// DefaultLayout is applied whenever the graph is replaced.
const DefaultLayout = "dagre"

// LayoutNames lists the presets in menu order.
var LayoutNames = []string{"dagre", "breadthfirst", "cola", "grid", "circle"}

var noRandomize = false

var layouts = map[string]Layout{
	"dagre": {
		Name: "dagre", RankDir: "TB", Animate: true, AnimationDuration: 500,
		Fit: true, Padding: 50, NodeDimensionsIncludeLabels: true, SpacingFactor: 1.5,
	},
	"breadthfirst": {
		Name: "breadthfirst", Directed: true, Animate: true, AnimationDuration: 500,
		Fit: true, Padding: 50, SpacingFactor: 1.5,
	},
	"cola": {
		Name: "cola", Animate: true, Randomize: &noRandomize,
		Fit: true, Padding: 50, NodeSpacing: 50, EdgeLength: 150,
	},
	"grid": {
		Name: "grid", Animate: true, Fit: true, Padding: 50, Rows: 3,
	},
	"circle": {
		Name: "circle", Animate: true, Fit: true, Padding: 50,
	},
}

// LayoutPreset returns the named layout configuration.
func LayoutPreset(name string) (Layout, error) {
	l, ok := layouts[name]
	if !ok {
		return Layout{}, errors.New(errors.ErrCodeUnknownLayout, "unknown layout %q", name)
	}
	return l, nil
}
