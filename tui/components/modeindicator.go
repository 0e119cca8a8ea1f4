package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// ModeIndicator shows which clock the picker displays: "Elapsed" or
// "Wall clock".
func ModeIndicator(mode string, width int) string {
	textStyle := lipgloss.NewStyle().Foreground(styles.Text)

	left := " Clock"
	right := mode + " "

	pad := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return RenderInfoBox("Mode", []string{textStyle.Render(left + strings.Repeat(" ", pad) + right)}, width)
}
