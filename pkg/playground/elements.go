package playground

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// Element groups.
const (
	GroupNodes = "nodes"
	GroupEdges = "edges"
)

// Element classes used by the playground stylesheet.
const (
	ClassTerminal = "terminal"
	ClassProcess  = "process"
	ClassDecision = "decision"
	ClassData     = "data"
)

// Element is one Cytoscape node or edge.
type Element struct {
	Group   string      `json:"group"`
	Data    ElementData `json:"data"`
	Classes string      `json:"classes,omitempty"`
}

// ElementData is the data object of an element. Nodes use the node fields
// and edges use Source, Target and Label.
type ElementData struct {
	ID          string            `json:"id,omitempty"`
	Label       string            `json:"label,omitempty"`
	Parent      string            `json:"parent,omitempty"`
	NodeType    string            `json:"nodeType,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Metrics     map[string]string `json:"metrics,omitempty"`
	Source      string            `json:"source,omitempty"`
	Target      string            `json:"target,omitempty"`
}

// IsNode reports whether the element is a node.
func (e Element) IsNode() bool { return e.Group == GroupNodes }

// IsEdge reports whether the element is an edge.
func (e Element) IsEdge() bool { return e.Group == GroupEdges }

// DisplayTitle returns the title, then the label, then the id.
func (d ElementData) DisplayTitle() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Label != "":
		return d.Label
	}
	return d.ID
}

// Document is the editor's import and export shape.
type Document struct {
	Elements []Element `json:"elements"`
}

// ParseElements decodes an editor document. The document must be a JSON
// object with an "elements" array; nodes need an id, edges need a source
// and a target that name nodes of the same document.
func ParseElements(data []byte) ([]Element, error) {
	var doc struct {
		Elements *[]Element `json:"elements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "invalid JSON")
	}
	if doc.Elements == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, `JSON must contain an "elements" array`)
	}
	els := *doc.Elements
	if err := checkElements(els); err != nil {
		return nil, err
	}
	return els, nil
}

func checkElements(els []Element) error {
	ids := make(map[string]bool, len(els))
	for i, e := range els {
		if !e.IsNode() {
			continue
		}
		if e.Data.ID == "" {
			return errors.New(errors.ErrCodeMalformedInput, "element %d: node without id", i)
		}
		if ids[e.Data.ID] {
			return errors.New(errors.ErrCodeDuplicateNodeID, "duplicate node id %q", e.Data.ID)
		}
		ids[e.Data.ID] = true
	}
	for i, e := range els {
		switch {
		case e.IsNode():
			if e.Data.Parent != "" && !ids[e.Data.Parent] {
				return errors.New(errors.ErrCodeUnknownParent, "node %q: unknown parent %q", e.Data.ID, e.Data.Parent)
			}
		case e.IsEdge():
			for _, end := range []string{e.Data.Source, e.Data.Target} {
				if !ids[end] {
					return errors.New(errors.ErrCodeDanglingEdge, "element %d: edge %s -> %s references missing node %q",
						i, e.Data.Source, e.Data.Target, end)
				}
			}
		default:
			return errors.New(errors.ErrCodeMalformedInput, "element %d: unknown group %q", i, e.Group)
		}
	}
	return flowchart.Validate(ToGraph("", els))
}

// ExportElements encodes elements as an indented editor document.
func ExportElements(els []Element) ([]byte, error) {
	if els == nil {
		els = []Element{}
	}
	data, err := json.Marshal(Document{Elements: els})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the download name for an export taken at t,
// such as "cytoscape-graph-2024-05-01T09-30-00.json".
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("cytoscape-graph-%s.json", t.UTC().Format("2006-01-02T15-04-05"))
}

// ElementClass maps a flowchart node type to its playground class.
// Types without a dedicated class return "".
func ElementClass(typ string) string {
	switch typ {
	case "start", "end", ClassTerminal:
		return ClassTerminal
	case ClassProcess, ClassDecision, ClassData:
		return typ
	}
	return ""
}

// ToGraph converts elements to a flowchart graph. Node titles become labels.
// Terminal nodes become "start" when nothing enters them and "end"
// otherwise.
func ToGraph(id string, els []Element) *flowchart.Graph {
	g := &flowchart.Graph{ID: id, Nodes: []flowchart.Node{}, Edges: []flowchart.Edge{}}
	incoming := map[string]int{}
	for _, e := range els {
		if e.IsEdge() {
			incoming[e.Data.Target]++
			g.Edges = append(g.Edges, flowchart.Edge{From: e.Data.Source, To: e.Data.Target, Label: e.Data.Label})
		}
	}
	for _, e := range els {
		if !e.IsNode() {
			continue
		}
		typ := e.Data.NodeType
		if typ == ClassTerminal {
			typ = "end"
			if incoming[e.Data.ID] == 0 {
				typ = "start"
			}
		}
		label := e.Data.DisplayTitle()
		if label == e.Data.ID {
			label = ""
		}
		g.Nodes = append(g.Nodes, flowchart.Node{
			ID:          e.Data.ID,
			Label:       label,
			Type:        typ,
			Parent:      e.Data.Parent,
			Description: e.Data.Description,
		})
	}
	return g
}

// FromGraph converts a flowchart graph to elements. Compound nodes become
// labelled containers without a node type, as Cytoscape expects for parents.
func FromGraph(g *flowchart.Graph) []Element {
	els := make([]Element, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		if g.IsCompound(n.ID) {
			els = append(els, Element{
				Group: GroupNodes,
				Data:  ElementData{ID: n.ID, Label: n.DisplayLabel(), Parent: n.Parent},
			})
			continue
		}
		class := ElementClass(n.Type)
		nodeType := class
		if nodeType == "" {
			nodeType = n.Type
		}
		els = append(els, Element{
			Group: GroupNodes,
			Data: ElementData{
				ID:          n.ID,
				Parent:      n.Parent,
				NodeType:    nodeType,
				Title:       n.DisplayLabel(),
				Description: n.Description,
			},
			Classes: class,
		})
	}
	for i, e := range g.Edges {
		els = append(els, Element{
			Group: GroupEdges,
			Data: ElementData{
				ID:     fmt.Sprintf("e%d", i),
				Source: e.From,
				Target: e.To,
				Label:  e.Label,
			},
		})
	}
	return els
}
