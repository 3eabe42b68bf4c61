package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/transform"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EditorModel - Interactive branch deletion
// =============================================================================

// EditorModel is the bubbletea model for deleting branches from a tree.
// Every key press works on the graph directly; Saved reports whether the
// user asked to keep the result.
type EditorModel struct {
	Graph   *lineage.Graph
	Links   []*lineage.Link
	Cursor  int
	Offset  int
	Height  int
	Compact bool
	Saved   bool
	Status  string
	Err     error

	ctx context.Context
}

// NewEditorModel creates an editor for g. compact sets the initial
// compaction mode, which can be toggled with "c".
func NewEditorModel(ctx context.Context, g *lineage.Graph, compact bool) EditorModel {
	m := EditorModel{
		Graph:   g,
		Height:  15,
		Compact: compact,
		ctx:     ctx,
	}
	m.refresh()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w":
			m.Saved = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Links)-1 {
				m.Cursor++
			}
		case "c":
			m.Compact = !m.Compact
			m.Status = fmt.Sprintf("compaction %s", onOff(m.Compact))
		case "d", "enter", "backspace", "delete":
			m.deleteSelected()
		case "s":
			m.compactAll()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.scroll()
	}
	return m, nil
}

func (m *EditorModel) deleteSelected() {
	if len(m.Links) == 0 {
		return
	}
	id := m.Links[m.Cursor].ID
	res, err := transform.DeleteLink(m.ctx, m.Graph, id, transform.Options{Compact: m.Compact})
	if err != nil {
		m.Err = err
		m.Status = err.Error()
		return
	}
	m.Err = nil
	m.Status = fmt.Sprintf("deleted %s: %d points, %d links removed", id, res.NodesRemoved, res.LinksRemoved)
	if res.ChainsCollapsed > 0 {
		m.Status += fmt.Sprintf(", %d collapsed", res.ChainsCollapsed)
	}
	m.refresh()
}

func (m *EditorModel) compactAll() {
	res, err := transform.Compact(m.ctx, m.Graph)
	if err != nil {
		m.Err = err
		m.Status = err.Error()
		return
	}
	m.Err = nil
	m.Status = fmt.Sprintf("collapsed %d chain point(s)", res.ChainsCollapsed)
	m.refresh()
}

// refresh reloads the link list after an edit and keeps the cursor in range.
func (m *EditorModel) refresh() {
	m.Links = m.Graph.Links()
	m.Cursor = min(m.Cursor, max(len(m.Links)-1, 0))
}

func (m *EditorModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(min(m.Offset, len(m.Links)-m.Height), 0)
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit Lineage"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d delete branch  s compact  c toggle compaction  w save  q quit"))
	b.WriteString("\n\n")

	if len(m.Links) == 0 {
		b.WriteString(listNormalStyle.Render("  no links left"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.linkTable())
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Links))))
		b.WriteString("\n")
	}

	root := "—"
	if r, ok := m.Graph.Root(); ok {
		root = r.ID
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s  %s %s  %s %s  %s %s\n",
		StyleDim.Render("points"), StyleValue.Render(fmt.Sprint(m.Graph.NodeCount())),
		StyleDim.Render("links"), StyleValue.Render(fmt.Sprint(m.Graph.LinkCount())),
		StyleDim.Render("root"), StyleValue.Render(root),
		StyleDim.Render("compaction"), StyleValue.Render(onOff(m.Compact))))

	if m.Status != "" {
		style := StyleSuccess
		if m.Err != nil {
			style = StyleWarning
		}
		b.WriteString("  " + style.Render(m.Status) + "\n")
	}
	return b.String()
}

func (m EditorModel) linkTable() string {
	end := min(m.Offset+m.Height, len(m.Links))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Links[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		src, _ := m.Graph.Node(l.Source)
		dst, _ := m.Graph.Node(l.Target)
		rows = append(rows, []string{
			cursor,
			l.ID,
			fmt.Sprintf("%g → %g", src.X, dst.X),
			fmt.Sprintf("%g → %g", src.Y, dst.Y),
			fmt.Sprint(len(dst.OutputLinks)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Link", "Time", "Row", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
