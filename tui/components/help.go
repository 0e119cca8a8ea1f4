package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

type binding struct {
	key  string
	desc string
}

var helpGroups = []struct {
	title    string
	bindings []binding
}{
	{"Forward", []binding{
		{"k", "1 frame"},
		{"K", "1 second"},
		{"l", "10 seconds"},
		{"L", "30 seconds"},
	}},
	{"Backward", []binding{
		{"j", "1 frame"},
		{"J", "1 second"},
		{"h", "10 seconds"},
		{"H", "30 seconds"},
	}},
	{"Clip", []binding{
		{"a", "Mark start at current frame"},
		{"s", "Mark end at current frame"},
		{"q", "Export marked range and quit"},
		{"Esc", "Cancel a running export"},
	}},
	{"Other", []binding{
		{"m", "Toggle elapsed / wall-clock time"},
		{"x", "Save current frame as JPEG"},
		{"?", "Show/hide this help"},
		{"Q / Ctrl+C", "Quit without exporting"},
	}},
}

// HelpOverlay renders the keybinding reference centred in width x height.
func HelpOverlay(width, height int) string {
	groupHeader := styles.Header.MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Muted).Bold(true).Width(12)

	lines := []string{lipgloss.NewStyle().Foreground(styles.Info).Bold(true).Render("Keybindings")}
	for _, g := range helpGroups {
		lines = append(lines, groupHeader.Render(g.title))
		for _, b := range g.bindings {
			lines = append(lines, "  "+keyStyle.Render(b.key)+styles.PrimaryText.Render(b.desc))
		}
	}
	lines = append(lines, "", styles.SecondaryText.Italic(true).Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(styles.Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Focus).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	if width <= 0 || height <= 0 {
		return panel
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
