package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nestmap/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listBarStyle      = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// TreeModel - Interactive tree browser
// =============================================================================

// treeRow is one visible row of the flattened tree.
type treeRow struct {
	node  *tree.Node
	depth int
}

// TreeModel is the bubbletea model for browsing a weighted tree.
type TreeModel struct {
	Root     *tree.Node
	Cursor   int
	Height   int
	Offset   int
	expanded map[*tree.Node]bool
	rows     []treeRow
}

// NewTreeModel creates a tree browser with the root's children expanded.
func NewTreeModel(root *tree.Node) TreeModel {
	m := TreeModel{
		Root:     root,
		Height:   20,
		expanded: map[*tree.Node]bool{root: true},
	}
	m.flatten()
	return m
}

// flatten rebuilds the visible row list from the expansion state.
func (m *TreeModel) flatten() {
	m.rows = m.rows[:0]
	var walk func(n *tree.Node, depth int)
	walk = func(n *tree.Node, depth int) {
		m.rows = append(m.rows, treeRow{node: n, depth: depth})
		if m.expanded[n] {
			for _, c := range n.Children {
				walk(c, depth+1)
			}
		}
	}
	walk(m.Root, 0)
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "right", "l":
			n := m.rows[m.Cursor].node
			if n.IsContainer() && !m.expanded[n] {
				m.expanded[n] = true
				m.flatten()
			}
		case "left", "h":
			n := m.rows[m.Cursor].node
			if m.expanded[n] {
				delete(m.expanded, n)
				m.flatten()
			}
		case "enter", " ":
			n := m.rows[m.Cursor].node
			if n.IsContainer() {
				if m.expanded[n] {
					delete(m.expanded, n)
				} else {
					m.expanded[n] = true
				}
				m.flatten()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  →/← expand/collapse  ⏎ toggle  q quit"))
	b.WriteString("\n\n")

	total := m.Root.Value
	if total <= 0 {
		total = 1
	}

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		n := row.node

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if n.IsContainer() {
			if m.expanded[n] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		share := n.Value / total
		bar := listBarStyle.Render(valueBar(share, 10))
		label := fmt.Sprintf("%s%s%s%s", cursor, strings.Repeat("  ", row.depth), marker, n.DisplayLabel())
		meta := listDimStyle.Render(fmt.Sprintf("%-8s %7.0f  %s %4.1f%%", n.Category, n.Value, bar, share*100))

		line := fmt.Sprintf("%-50s %s", label, meta)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// valueBar renders a proportional bar of at most width cells.
func valueBar(share float64, width int) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	filled := int(share*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
