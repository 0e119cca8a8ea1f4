// Package layout sizes and joins the picker's panes.
package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

const (
	MinTerminalWidth  = 60 // below this the picker asks for a wider terminal
	PanelHideWidth    = 90 // below this the side panel is dropped
	PanelWidth        = 34
	MinTerminalHeight = 12
)

// Split divides the terminal width between the frame preview and the side
// panel. The panel is hidden on narrow terminals.
func Split(termWidth int) (preview, panel int, showPanel bool) {
	showPanel = termWidth >= PanelHideWidth
	if !showPanel {
		return termWidth, 0, false
	}
	// one column for the separator
	return termWidth - PanelWidth - 1, PanelWidth, true
}

// JoinColumns joins pre-rendered column strings side by side with border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	sep := lipgloss.NewStyle().Foreground(styles.Border).Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, len(colLines))
		for i, lines := range colLines {
			parts[i] = PadToWidth(lines[row], widths[i])
		}
		rows = append(rows, strings.Join(parts, sep))
	}
	return strings.Join(rows, "\n")
}
