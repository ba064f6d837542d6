package playground

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/observability"
)

// Viewport limits and steps.
const (
	MinZoom     = 0.2
	MaxZoom     = 3.0
	zoomInStep  = 1.2
	zoomOutStep = 0.8
)

// Options configures a new Session.
type Options struct {
	// Dataset is loaded at creation. Empty uses "workflow".
	Dataset string
	// Layout is the initial preset. Empty uses DefaultLayout.
	Layout string
	// Logger receives session events. Nil uses log.Default().
	Logger *log.Logger
	// Now is the clock used for export names. Nil uses time.Now.
	Now func() time.Time
}

// State is a point-in-time copy of a session.
type State struct {
	ID       string    `json:"id"`
	Dataset  string    `json:"dataset,omitempty"`
	Layout   Layout    `json:"layout"`
	Elements []Element `json:"elements"`
	Selected string    `json:"selected,omitempty"`
	Hovered  string    `json:"hovered,omitempty"`
	Zoom     float64   `json:"zoom"`
	// Version increases with every change.
	Version int `json:"version"`
}

// NodeInfo is the info panel content for one node.
type NodeInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Group       string `json:"group"`
	Description string `json:"description,omitempty"`
	In          int    `json:"in"`
	Out         int    `json:"out"`
	Connections string `json:"connections"`
}

// Session is one user's playground state.
type Session struct {
	id     string
	logger *log.Logger
	now    func() time.Time

	mu       sync.RWMutex
	dataset  string
	layout   Layout
	elements []Element
	selected string
	hovered  string
	zoom     float64
	version  int

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// NewSession creates a session with the configured dataset and layout
// loaded.
func NewSession(opts Options) (*Session, error) {
	if opts.Dataset == "" {
		opts.Dataset = DatasetNames[0]
	}
	if opts.Layout == "" {
		opts.Layout = DefaultLayout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	els, err := Dataset(opts.Dataset)
	if err != nil {
		return nil, err
	}
	layout, err := LayoutPreset(opts.Layout)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Session{
		id:       id,
		logger:   opts.Logger.With("session", id[:8]),
		now:      opts.Now,
		dataset:  opts.Dataset,
		layout:   layout,
		elements: els,
		zoom:     1,
		subs:     map[int]func(State){},
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		ID:       s.id,
		Dataset:  s.dataset,
		Layout:   s.layout,
		Elements: append([]Element(nil), s.elements...),
		Selected: s.selected,
		Hovered:  s.hovered,
		Zoom:     s.zoom,
		Version:  s.version,
	}
}

// Subscribe registers fn to receive the new state after every change.
// fn runs on the goroutine that made the change and must not call back
// into mutating Session methods.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// update applies fn under the write lock and notifies subscribers when fn
// reports a change.
func (s *Session) update(fn func() (bool, error)) error {
	s.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.version++
	st := s.stateLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
	return nil
}

// =============================================================================
// Events
// =============================================================================

// EventKind identifies a user interaction.
type EventKind string

// Event kinds.
const (
	NodeSelected  EventKind = "node_selected"
	NodeHovered   EventKind = "node_hovered"
	GraphReplaced EventKind = "graph_replaced"
)

// Event is a user interaction dispatched into a session.
//
// NodeSelected and NodeHovered carry NodeID; an empty NodeID clears the
// selection or hover. GraphReplaced carries the new Elements and, when they
// come from a sample, the Dataset name.
type Event struct {
	Kind     EventKind `json:"kind"`
	NodeID   string    `json:"nodeId,omitempty"`
	Elements []Element `json:"elements,omitempty"`
	Dataset  string    `json:"dataset,omitempty"`
}

// Dispatch applies ev to the session.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	err := s.dispatch(ev)
	observability.Playground().OnEvent(ctx, string(ev.Kind), err)
	if err != nil {
		s.logger.Debug("event rejected", "kind", ev.Kind, "err", err)
	}
	return err
}

func (s *Session) dispatch(ev Event) error {
	switch ev.Kind {
	case NodeSelected:
		return s.update(func() (bool, error) {
			if err := s.checkNodeLocked(ev.NodeID); err != nil {
				return false, err
			}
			changed := s.selected != ev.NodeID
			s.selected = ev.NodeID
			return changed, nil
		})
	case NodeHovered:
		return s.update(func() (bool, error) {
			if err := s.checkNodeLocked(ev.NodeID); err != nil {
				return false, err
			}
			changed := s.hovered != ev.NodeID
			s.hovered = ev.NodeID
			return changed, nil
		})
	case GraphReplaced:
		if err := checkElements(ev.Elements); err != nil {
			return err
		}
		return s.update(func() (bool, error) {
			layout, _ := LayoutPreset(DefaultLayout)
			s.elements = append([]Element(nil), ev.Elements...)
			s.dataset = ev.Dataset
			s.layout = layout
			s.selected, s.hovered = "", ""
			s.zoom = 1
			s.logger.Info("graph replaced", "dataset", ev.Dataset, "elements", len(ev.Elements))
			return true, nil
		})
	default:
		return errors.New(errors.ErrCodeMalformedInput, "unknown event kind %q", ev.Kind)
	}
}

func (s *Session) checkNodeLocked(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.nodeLocked(id); !ok {
		return errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
	}
	return nil
}

func (s *Session) nodeLocked(id string) (Element, bool) {
	for _, e := range s.elements {
		if e.IsNode() && e.Data.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// =============================================================================
// Commands
// =============================================================================

// LoadDataset replaces the graph with a sample dataset.
func (s *Session) LoadDataset(ctx context.Context, name string) error {
	els, err := Dataset(name)
	if err != nil {
		return err
	}
	return s.Dispatch(ctx, Event{Kind: GraphReplaced, Elements: els, Dataset: name})
}

// ApplyJSON replaces the graph with an editor document.
func (s *Session) ApplyJSON(ctx context.Context, data []byte) error {
	els, err := ParseElements(data)
	if err != nil {
		return err
	}
	return s.Dispatch(ctx, Event{Kind: GraphReplaced, Elements: els})
}

// SetLayout switches the layout preset.
func (s *Session) SetLayout(name string) error {
	layout, err := LayoutPreset(name)
	if err != nil {
		return err
	}
	return s.update(func() (bool, error) {
		s.layout = layout
		return true, nil
	})
}

// ZoomIn scales the viewport by 1.2, up to MaxZoom.
func (s *Session) ZoomIn() float64 { return s.scaleZoom(zoomInStep) }

// ZoomOut scales the viewport by 0.8, down to MinZoom.
func (s *Session) ZoomOut() float64 { return s.scaleZoom(zoomOutStep) }

// Fit resets the viewport to fit the whole graph.
func (s *Session) Fit() float64 {
	_ = s.update(func() (bool, error) {
		s.zoom = 1
		return true, nil
	})
	return s.Zoom()
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

func (s *Session) scaleZoom(f float64) float64 {
	_ = s.update(func() (bool, error) {
		z := s.zoom * f
		z = max(MinZoom, min(MaxZoom, z))
		changed := z != s.zoom
		s.zoom = z
		return changed, nil
	})
	return s.Zoom()
}

// NodeInfo describes a node for the info panel.
func (s *Session) NodeInfo(id string) (NodeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodeLocked(id)
	if !ok {
		return NodeInfo{}, errors.New(errors.ErrCodeUnknownNode, "unknown node %q", id)
	}
	info := NodeInfo{
		ID:          id,
		Title:       n.Data.DisplayTitle(),
		Type:        n.Data.NodeType,
		Status:      "active",
		Group:       n.Data.Parent,
		Description: n.Data.Description,
	}
	if info.Type == "" {
		info.Type = "standard"
	}
	if info.Group == "" {
		info.Group = "none"
	}
	for _, e := range s.elements {
		if !e.IsEdge() {
			continue
		}
		if e.Data.Target == id {
			info.In++
		}
		if e.Data.Source == id {
			info.Out++
		}
	}
	info.Connections = fmt.Sprintf("%d in, %d out", info.In, info.Out)
	return info, nil
}

// Export returns the current graph as an editor document together with its
// download file name.
func (s *Session) Export() (data []byte, filename string, err error) {
	st := s.State()
	data, err = ExportElements(st.Elements)
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilename(s.now()), nil
}

// Graph returns the current elements as a flowchart graph named after the
// dataset, or "playground" for edited graphs.
func (s *Session) Graph() *flowchart.Graph {
	st := s.State()
	id := st.Dataset
	if id == "" {
		id = "playground"
	}
	return ToGraph(id, st.Elements)
}
