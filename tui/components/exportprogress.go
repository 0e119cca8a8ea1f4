package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// ExportProgressState holds the state for the export progress display.
type ExportProgressState struct {
	Active bool
	// Total is the number of source frames in the range.
	Total   int
	Written int
	// Source is the source frame most recently written.
	Source int
	Output string
}

// ExportProgress renders a bordered box with a progress bar, the frames
// written so far and the output file.
func ExportProgress(state ExportProgressState, width int) string {
	if !state.Active || width < 10 {
		return ""
	}

	done := lipgloss.NewStyle().Foreground(styles.Green)
	todo := lipgloss.NewStyle().Foreground(styles.Border)

	inner := width - 4
	if inner < 6 {
		inner = 6
	}
	barWidth := inner - 6
	if barWidth < 4 {
		barWidth = 4
	}

	var pct, filled int
	if state.Total > 0 {
		// dropped frames mean written can finish below total
		pct = min(state.Written*100/state.Total, 100)
		filled = min(barWidth*state.Written/state.Total, barWidth)
	}

	lines := []string{
		" " + done.Render(strings.Repeat("█", filled)) + todo.Render(strings.Repeat("░", barWidth-filled)) +
			styles.PrimaryText.Render(fmt.Sprintf(" %3d%%", pct)),
		styles.PrimaryText.Render(fmt.Sprintf(" %d frames written, at source %d", state.Written, state.Source)),
	}
	if state.Output != "" {
		lines = append(lines, styles.SecondaryText.Render(" "+Tail(state.Output, inner-2)))
	}
	return RenderInfoBox("Export", lines, width)
}

// Tail cuts s from the left so it fits in width cells.
func Tail(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return "..." + string(r[len(r)-width+3:])
}
