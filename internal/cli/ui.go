package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/lineage/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, nodes
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for link IDs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleRoot    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleNode    = lipgloss.NewStyle().Foreground(colorWhite)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// uiOut receives status lines. It is stderr so that JSON written to stdout
// can be piped into the next command.
var uiOut io.Writer = os.Stderr

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(msg))
}

func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints tree statistics on a single line.
func printStats(g *lineage.Graph) {
	parts := []string{
		fmt.Sprintf("%d points", g.NodeCount()),
		fmt.Sprintf("%d links", g.LinkCount()),
	}
	if root, ok := g.Root(); ok {
		parts = append(parts, "root "+root.ID)
	}
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Tree Output
// =============================================================================

// renderTree draws g from its root with children in row order.
func renderTree(g *lineage.Graph) string {
	root, ok := g.Root()
	if !ok {
		return StyleDim.Render("(empty)")
	}
	t := buildTree(g, root).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(styleRoot).
		ItemStyle(styleNode)
	return t.String()
}

func buildTree(g *lineage.Graph, n *lineage.Node) *tree.Tree {
	t := tree.Root(nodeLabel(n))
	children := g.Children(n.ID)
	layout.SortSiblings(children)
	for _, c := range children {
		if len(c.OutputLinks) == 0 {
			t.Child(nodeLabel(c))
			continue
		}
		t.Child(buildTree(g, c))
	}
	return t
}

func nodeLabel(n *lineage.Node) string {
	return fmt.Sprintf("%s %s", n.ID, StyleDim.Render(fmt.Sprintf("t=%g row=%g", n.X, n.Y)))
}
