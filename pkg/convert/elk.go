package convert

import (
	"strconv"

	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

// ELK layout directions.
const (
	DirectionDown  = "DOWN"
	DirectionUp    = "UP"
	DirectionRight = "RIGHT"
	DirectionLeft  = "LEFT"
)

// ELKOptions configures the ELK JSON converter.
type ELKOptions struct {
	// Direction is the layered flow direction. Empty means DOWN.
	Direction string
	// MergeEdges lets ELK bundle edges that share an endpoint.
	MergeEdges bool
}

// Node box sizes fed to ELK, in layout units.
const (
	elkNodeWidth      = 150
	elkNodeHeight     = 50
	elkDecisionWidth  = 140
	elkDecisionHeight = 80
	elkTerminalWidth  = 140
	elkTerminalHeight = 50
)

// ELKGraph is the root of an ELK JSON document.
type ELKGraph struct {
	ID            string            `json:"id"`
	LayoutOptions map[string]string `json:"layoutOptions"`
	Children      []ELKNode         `json:"children"`
	Edges         []ELKEdge         `json:"edges"`
}

// ELKNode is a sized box. Compound nodes nest their children.
type ELKNode struct {
	ID            string            `json:"id"`
	Labels        []ELKLabel        `json:"labels"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	LayoutOptions map[string]string `json:"layoutOptions"`
	Properties    ELKProperties     `json:"properties"`
	Children      []ELKNode         `json:"children,omitempty"`
}

// ELKLabel is a text label attached to a node or edge.
type ELKLabel struct {
	Text string `json:"text"`
}

// ELKProperties carries flowchart metadata through the layout untouched.
type ELKProperties struct {
	Type string `json:"type"`
}

// ELKEdge is a hyperedge with a single source and target.
type ELKEdge struct {
	ID      string     `json:"id"`
	Sources []string   `json:"sources"`
	Targets []string   `json:"targets"`
	Labels  []ELKLabel `json:"labels,omitempty"`
}

// ELKLayout builds the ELK graph for g without encoding it.
func ELKLayout(g *flowchart.Graph, opts ELKOptions) *ELKGraph {
	dir := opts.Direction
	if dir == "" {
		dir = DirectionDown
	}
	merge := "false"
	if opts.MergeEdges {
		merge = "true"
	}

	root := &ELKGraph{
		ID: "root",
		LayoutOptions: map[string]string{
			"elk.algorithm":                               "layered",
			"elk.direction":                               dir,
			"elk.layered.thoroughness":                    "8",
			"org.eclipse.elk.layered.feedbackEdges":       "true",
			"elk.layered.spacing.edgeEdgeBetweenLayers":   "50",
			"elk.layered.spacing.nodeNodeBetweenLayers":   "70",
			"elk.spacing.edgeNode":                        "40",
			"elk.spacing.edgeNodeBetweenLayers":           "40",
			"elk.spacing.nodeSelfLoop":                    "50",
			"elk.layered.nodePlacement.strategy":          "BRANDES_KOEPF",
			"elk.layered.nodePlacement.bk.fixedAlignment": "BALANCED",
			"elk.hierarchyHandling":                       "INCLUDE_CHILDREN",
			"elk.layered.considerModelOrder.strategy":     "NODES_AND_EDGES",
			"elk.layered.cycleBreaking.strategy":          "GREEDY_MODEL_ORDER",
			"elk.nodeSize.constraints":                    "MINIMUM_SIZE",
			"elk.contentAlignment":                        "H_CENTER V_CENTER",
			"elk.edgeRouting":                             "ORTHOGONAL",
			"elk.layered.mergeEdges":                      merge,
		},
		Children: elkChildren(g, ""),
		Edges:    make([]ELKEdge, 0, len(g.Edges)),
	}

	for i, e := range g.Edges {
		edge := ELKEdge{
			ID:      "edge-" + strconv.Itoa(i),
			Sources: []string{e.From},
			Targets: []string{e.To},
		}
		if e.Label != "" {
			edge.Labels = []ELKLabel{{Text: e.Label}}
		}
		root.Edges = append(root.Edges, edge)
	}
	return root
}

// ToELK converts a graph to ELK JSON.
func ToELK(g *flowchart.Graph, opts ELKOptions) ([]byte, error) {
	return json.MarshalIndent(ELKLayout(g, opts), "", "  ")
}

// elkChildren returns the nodes whose parent is parent, each with its own
// subtree. Nodes with an unresolved parent are placed at the root.
func elkChildren(g *flowchart.Graph, parent string) []ELKNode {
	out := []ELKNode{}
	for _, n := range g.Nodes {
		p := n.Parent
		if p != "" && !g.HasNode(p) {
			p = ""
		}
		if p != parent {
			continue
		}
		w, h := elkSize(n.Type)
		typ := n.Type
		if typ == "" {
			typ = style.KindProcess.String()
		}
		node := ELKNode{
			ID:            n.ID,
			Labels:        []ELKLabel{{Text: n.DisplayLabel()}},
			Width:         w,
			Height:        h,
			LayoutOptions: map[string]string{"elk.nodeLabels.placement": "H_CENTER V_CENTER INSIDE"},
			Properties:    ELKProperties{Type: typ},
		}
		if g.IsCompound(n.ID) {
			node.Children = elkChildren(g, n.ID)
		}
		out = append(out, node)
	}
	return out
}

func elkSize(typ string) (w, h int) {
	switch style.ParseType(typ).Kind {
	case style.KindDecision:
		return elkDecisionWidth, elkDecisionHeight
	case style.KindStart, style.KindEnd:
		return elkTerminalWidth, elkTerminalHeight
	default:
		return elkNodeWidth, elkNodeHeight
	}
}
