package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// TimelineState is the frame position and the marked range; unset marks are -1.
type TimelineState struct {
	Frame    int
	MaxFrame int
	Start    int
	End      int
}

// Timeline renders a one-line position bar inside a box. The marked range is
// filled, the marks themselves are drawn as [ and ], and the playhead as ┃.
func Timeline(state TimelineState, width int) string {
	if width < 20 {
		return ""
	}

	label := fmt.Sprintf(" %d ", state.Frame)
	barWidth := width - 4 - lipgloss.Width(label)
	if barWidth < 8 {
		barWidth = 8
	}

	col := func(frame int) int {
		if frame < 0 || state.MaxFrame <= 0 {
			return -1
		}
		c := frame * (barWidth - 1) / state.MaxFrame
		if c >= barWidth {
			c = barWidth - 1
		}
		return c
	}

	head, start, end := col(state.Frame), col(state.Start), col(state.End)

	track := lipgloss.NewStyle().Foreground(styles.Border)
	marked := lipgloss.NewStyle().Foreground(styles.Info)
	playhead := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)

	var b strings.Builder
	b.WriteByte(' ')
	for i := 0; i < barWidth; i++ {
		switch {
		case i == head:
			b.WriteString(playhead.Render("┃"))
		case i == start:
			b.WriteString(styles.Mark.Render("["))
		case i == end:
			b.WriteString(styles.Mark.Render("]"))
		case start >= 0 && end >= 0 && i > start && i < end:
			b.WriteString(marked.Render("━"))
		case start >= 0 && end < 0 && i > start && i < head:
			b.WriteString(marked.Render("╌"))
		default:
			b.WriteString(track.Render("─"))
		}
	}
	b.WriteString(styles.PrimaryText.Render(label))

	return RenderInfoBox("Timeline", []string{b.String()}, width)
}
