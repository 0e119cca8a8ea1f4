package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// StatusBarState holds what the top bar shows about the current frame.
type StatusBarState struct {
	VideoName string
	Frame     int
	MaxFrame  int
	// Clock is the current time in the selected display mode.
	Clock string
	// StepFPS is the number of frames one K/J press moves.
	StepFPS int
	Busy    bool
}

// StatusBar renders the status bar component.
func StatusBar(state StatusBarState, width int) string {
	icon := "■"
	if state.Busy {
		icon = "●"
	}
	left := fmt.Sprintf(" %s %s  frame %d/%d", icon, state.VideoName, state.Frame, state.MaxFrame)
	right := fmt.Sprintf("%s  1s=%df ", state.Clock, state.StepFPS)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}

	return lipgloss.NewStyle().
		Background(styles.Surface).
		Foreground(styles.Text).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", pad) + right)
}
