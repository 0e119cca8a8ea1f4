package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadToWidth pads or cuts s to exactly width cells. Cutting is ANSI aware so
// styled text keeps its escape sequences balanced.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// NormalizeLines pads or cuts lines to exactly height entries.
func NormalizeLines(lines []string, height int) []string {
	if len(lines) >= height {
		return lines[:height]
	}
	out := make([]string, height)
	copy(out, lines)
	return out
}

// Center places block in the middle of a width x height area.
func Center(block string, width, height int) string {
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
