package flowchart

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// =============================================================================
// Graph
// =============================================================================

// Graph is one diagram: the unit of conversion and rendering.
// The id is the key of the graph within its example collection and is used
// as the output file stem.
type Graph struct {
	ID    string `json:"id,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	return g.Node(id) != nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Degree returns the number of edges entering and leaving the node.
// Self-loops count once in each direction.
func (g *Graph) Degree(id string) (in, out int) {
	for _, e := range g.Edges {
		if e.To == id {
			in++
		}
		if e.From == id {
			out++
		}
	}
	return in, out
}

// Children returns the ids of nodes whose parent is id, in node order.
func (g *Graph) Children(id string) []string {
	var ids []string
	for _, n := range g.Nodes {
		if n.Parent == id {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// IsCompound reports whether the node with the given id contains other nodes.
func (g *Graph) IsCompound(id string) bool {
	if id == "" {
		return false
	}
	for _, n := range g.Nodes {
		if n.Parent == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		ID:    g.ID,
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}

// Canonical returns the canonical JSON encoding of g.
// Struct field order is fixed, so equal graphs produce equal bytes; the
// result is suitable for content hashing.
func Canonical(g *Graph) []byte {
	data, _ := json.Marshal(g)
	return data
}

// Hash returns the hex SHA-256 of the canonical encoding of g.
func Hash(g *Graph) string {
	sum := sha256.Sum256(Canonical(g))
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// Node
// =============================================================================

// Node is a single flowchart box.
//
// Type is free text such as "start" or "decision". It only affects
// presentation; unknown values render with the default style.
// Parent optionally names another node that visually contains this one.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type,omitempty"`
	Parent      string `json:"parent,omitempty"`
	Description string `json:"description,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed connection between two nodes.
// Label has no default; an empty label renders as no label.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }
