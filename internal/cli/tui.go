package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/playground"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// PlaygroundModel - Terminal view of a playground session
// =============================================================================

// stateMsg carries a session state pushed by a subscription, so changes made
// from the browser page show up in the terminal too.
type stateMsg playground.State

// PlaygroundModel is the bubbletea model for browsing a playground session.
type PlaygroundModel struct {
	ctx     context.Context
	session *playground.Session

	State  playground.State
	Nodes  []playground.ElementData
	Cursor int
	Offset int
	Height int

	// ExportDir receives exported documents.
	ExportDir string
	// URL is the browser page, when a host is running.
	URL string

	Status string
	Err    error
}

// NewPlaygroundModel creates a model over sess.
func NewPlaygroundModel(ctx context.Context, sess *playground.Session, exportDir string) PlaygroundModel {
	m := PlaygroundModel{
		ctx:       ctx,
		session:   sess,
		Height:    12,
		ExportDir: exportDir,
	}
	m.setState(sess.State())
	return m
}

func (m PlaygroundModel) Init() tea.Cmd {
	return nil
}

func (m PlaygroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		// Pushes may arrive out of order; keep the newest.
		if msg.Version >= m.State.Version {
			m.setState(playground.State(msg))
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PlaygroundModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.Status, m.Err = "", nil

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.hoverCursor()
		}
	case "down", "j":
		if m.Cursor < len(m.Nodes)-1 {
			m.Cursor++
			m.hoverCursor()
		}
	case "enter", " ":
		if id := m.cursorID(); id != "" {
			m.Err = m.session.Dispatch(m.ctx, playground.Event{Kind: playground.NodeSelected, NodeID: id})
		}
	case "esc":
		m.Err = m.session.Dispatch(m.ctx, playground.Event{Kind: playground.NodeSelected})
	case "tab", "d":
		name := nextName(playground.DatasetNames, m.State.Dataset)
		if m.Err = m.session.LoadDataset(m.ctx, name); m.Err == nil {
			m.Cursor, m.Offset = 0, 0
			m.Status = "Loaded " + playground.DatasetTitles[name]
		}
	case "l":
		name := nextName(playground.LayoutNames, m.State.Layout.Name)
		if m.Err = m.session.SetLayout(name); m.Err == nil {
			m.Status = "Layout " + name
		}
	case "+", "=":
		m.session.ZoomIn()
	case "-":
		m.session.ZoomOut()
	case "f":
		m.session.Fit()
	case "e":
		m.export()
	}

	m.setState(m.session.State())
	return m, nil
}

func (m *PlaygroundModel) setState(st playground.State) {
	m.State = st
	m.Nodes = nil
	for _, e := range st.Elements {
		if e.IsNode() {
			m.Nodes = append(m.Nodes, e.Data)
		}
	}
	if m.Cursor >= len(m.Nodes) {
		m.Cursor = max(len(m.Nodes)-1, 0)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *PlaygroundModel) cursorID() string {
	if m.Cursor < len(m.Nodes) {
		return m.Nodes[m.Cursor].ID
	}
	return ""
}

func (m *PlaygroundModel) hoverCursor() {
	m.Err = m.session.Dispatch(m.ctx, playground.Event{Kind: playground.NodeHovered, NodeID: m.cursorID()})
}

func (m *PlaygroundModel) export() {
	data, name, err := m.session.Export()
	if err != nil {
		m.Err = err
		return
	}
	path := filepath.Join(m.ExportDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		m.Err = err
		return
	}
	m.Status = "Exported " + path
}

func (m PlaygroundModel) View() string {
	var b strings.Builder

	title := "Custom graph"
	if t, ok := playground.DatasetTitles[m.State.Dataset]; ok {
		title = t
	}
	b.WriteString(StyleTitle.Render("Flowchart Playground") + listDimStyle.Render(" · ") + StyleValue.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("layout %s · zoom %.2f · %d nodes", m.State.Layout.Name, m.State.Zoom, len(m.Nodes))))
	if m.URL != "" {
		b.WriteString(listDimStyle.Render(" · ") + StyleLink.Render(m.URL))
	}
	b.WriteString("\n\n")

	b.WriteString(m.nodeTable())
	b.WriteString("\n")

	if id := m.focusID(); id != "" {
		if info, err := m.session.NodeInfo(id); err == nil {
			b.WriteString(renderNodeInfo(info))
			b.WriteString("\n")
		}
	}

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.Err) + "\n")
	case m.Status != "":
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.Status + "\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ select  esc clear  d dataset  l layout  +/- zoom  f fit  e export  q quit"))
	return b.String()
}

// focusID is the node shown in the info panel: the selection, else the
// hovered node.
func (m PlaygroundModel) focusID() string {
	if m.State.Selected != "" {
		return m.State.Selected
	}
	return m.State.Hovered
}

func (m PlaygroundModel) nodeTable() string {
	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if n.ID == m.State.Selected {
			mark = iconSuccess
		}
		group := n.Parent
		if group == "" {
			group = "—"
		}
		typ := n.NodeType
		if typ == "" {
			typ = "—"
		}
		rows = append(rows, []string{cursor, mark, n.ID, n.DisplayTitle(), typ, group})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "ID", "Title", "Type", "Group").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	out := t.Render()
	if len(m.Nodes) > 0 {
		out += "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes)))
	}
	return out
}

func renderNodeInfo(info playground.NodeInfo) string {
	key := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	lines := []string{
		StyleTitle.Render(info.Title),
		key.Render("ID") + " " + info.ID,
		key.Render("Type") + " " + info.Type,
		key.Render("Status") + " " + StyleSuccess.Render(info.Status),
		key.Render("Group") + " " + info.Group,
		key.Render("Connections") + " " + info.Connections,
	}
	if info.Description != "" {
		lines = append(lines, "", StyleDim.Render(info.Description))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// nextName returns the entry after cur in names, wrapping around. An unknown
// cur starts at the first entry.
func nextName(names []string, cur string) string {
	i := slices.Index(names, cur)
	return names[(i+1)%len(names)]
}
