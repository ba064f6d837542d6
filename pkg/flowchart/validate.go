package flowchart

import (
	"strings"

	"github.com/matzehuels/flowbench/pkg/errors"
)

// Validate checks the structural invariants of g.
//
// It fails with:
//   - DUPLICATE_NODE_ID when two nodes share an id
//   - DANGLING_EDGE_REFERENCE when an edge endpoint names no node
//   - UNKNOWN_PARENT_REFERENCE when a parent names no node
//   - CYCLIC_PARENT_CHAIN when the parent relation loops (including a node
//     that is its own parent)
//
// The first violation found is returned. Validate never inspects node types.
func Validate(g *Graph) error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateNodeID, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	for i, e := range g.Edges {
		if _, ok := ids[e.From]; !ok {
			return errors.New(errors.ErrCodeDanglingEdge,
				"edge %d (%s -> %s) references unknown node %q", i, e.From, e.To, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return errors.New(errors.ErrCodeDanglingEdge,
				"edge %d (%s -> %s) references unknown node %q", i, e.From, e.To, e.To)
		}
	}

	parents := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Parent == "" {
			continue
		}
		if _, ok := ids[n.Parent]; !ok {
			return errors.New(errors.ErrCodeUnknownParent,
				"node %q references unknown parent %q", n.ID, n.Parent)
		}
		parents[n.ID] = n.Parent
	}

	if cycle := findParentCycle(g.Nodes, parents); cycle != nil {
		return errors.New(errors.ErrCodeCyclicParent,
			"parent chain forms a cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// findParentCycle walks each parent chain once and returns the first cycle
// found, closed with its starting id (a -> b -> a), or nil.
func findParentCycle(nodes []Node, parents map[string]string) []string {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(parents))

	for _, n := range nodes {
		if state[n.ID] != unvisited {
			continue
		}
		var path []string
		id := n.ID
		for {
			switch state[id] {
			case done:
				id = ""
			case onPath:
				start := 0
				for i, p := range path {
					if p == id {
						start = i
						break
					}
				}
				return append(path[start:], id)
			}
			if id == "" {
				break
			}
			state[id] = onPath
			path = append(path, id)
			parent, ok := parents[id]
			if !ok {
				break
			}
			id = parent
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}
