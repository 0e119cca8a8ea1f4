// Package components renders the panes of the frame picker.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// RenderInfoBox renders a bordered box with a tab-style header:
//
//	╭─ Title ──────╮
//	│ content      │
//	╰──────────────╯
//
// Content lines are rendered as-is; the caller handles styling.
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}
	inner := width - 2
	border := lipgloss.NewStyle().Foreground(styles.Border)

	header := styles.Header.Render(" " + title + " ")
	fill := inner - 1 - lipgloss.Width(header)
	if fill < 0 {
		fill = 0
	}

	lines := make([]string, 0, len(contentLines)+2)
	lines = append(lines, border.Render("╭─")+header+border.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range contentLines {
		pad := inner - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, border.Render("│")+line+strings.Repeat(" ", pad)+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(lines, "\n")
}
