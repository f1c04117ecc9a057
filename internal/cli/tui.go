package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphview/pkg/snapshot"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// SnapshotModel - Interactive session browser
// =============================================================================

type snapshotTab int

const (
	tabNodes snapshotTab = iota
	tabEdges
)

// SnapshotModel is the bubbletea model for browsing a session's nodes and
// edges. Elements added by the last expansion are drawn in the accent
// color.
type SnapshotModel struct {
	Session string
	Tab     snapshotTab
	Cursor  int
	Offset  int
	Height  int

	nodes [][]string
	edges [][]string
	hlN   []bool
	hlE   []bool
}

// NewSnapshotModel creates a browser over s.
func NewSnapshotModel(session string, s *snapshot.Snapshot) SnapshotModel {
	m := SnapshotModel{Session: session, Height: 15}
	m.nodes, m.hlN = nodeRows(s)
	m.edges, m.hlE = edgeRows(s)
	return m
}

func nodeRows(s *snapshot.Snapshot) ([][]string, []bool) {
	var rows [][]string
	var hl []bool
	for _, n := range s.Nodes() {
		rows = append(rows, []string{n.ID, n.Label, n.DisplayLabel, n.FillColor, n.IconGlyph})
		hl = append(hl, n.Highlighted)
	}
	return rows, hl
}

func edgeRows(s *snapshot.Snapshot) ([][]string, []bool) {
	var rows [][]string
	var hl []bool
	for _, e := range s.Edges() {
		place := strconv.FormatFloat(e.DirectedCurvature(), 'f', -1, 64)
		if e.IsLoop() {
			place = "loop " + strconv.FormatFloat(e.LoopOffset, 'f', -1, 64)
		}
		rows = append(rows, []string{
			e.ID,
			e.Source + " → " + e.Target,
			e.DisplayLabel,
			fmt.Sprintf("%d/%d", e.GroupIndex+1, e.GroupSize),
			place,
		})
		hl = append(hl, e.Highlighted)
	}
	return rows, hl
}

func (m SnapshotModel) rows() ([][]string, []bool) {
	if m.Tab == tabEdges {
		return m.edges, m.hlE
	}
	return m.nodes, m.hlN
}

func (m SnapshotModel) Init() tea.Cmd {
	return nil
}

func (m SnapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows, _ := m.rows()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			if m.Tab == tabNodes {
				m.Tab = tabEdges
			} else {
				m.Tab = tabNodes
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m SnapshotModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Session " + m.Session))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ switch  q quit"))
	b.WriteString("\n\n")

	rows, hl := m.rows()
	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(rows))
	visible := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		visible = append(visible, append([]string{cursor}, rows[i]...))
	}

	headers := []string{"", "ID", "Label", "Display", "Color", "Icon"}
	if m.Tab == tabEdges {
		headers = []string{"", "ID", "Endpoints", "Display", "Group", "Curve"}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Foreground(colorWhite)
			if hl[idx] {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))

	return b.String()
}

func (m SnapshotModel) tabs() string {
	nodes := fmt.Sprintf("Nodes (%d)", len(m.nodes))
	edges := fmt.Sprintf("Edges (%d)", len(m.edges))
	if m.Tab == tabEdges {
		return tabStyle.Render(nodes) + "  " + tabActiveStyle.Render(edges)
	}
	return tabActiveStyle.Render(nodes) + "  " + tabStyle.Render(edges)
}
