package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/framecut-cli/tui/styles"
)

// Theme returns a huh theme that matches the picker palette.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Accent).
		PaddingLeft(1)
	t.Focused.Title = styles.Header
	t.Focused.Description = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.ErrorIndicator = styles.Warning
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(styles.Red)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Info)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(styles.Border)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Info)
	t.Focused.TextInput.Text = styles.PrimaryText

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Background(styles.Accent).
		Foreground(styles.Base).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Background(styles.Surface).
		Foreground(styles.Muted).
		Padding(0, 1)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred.Base = t.Blurred.Base.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true).
		PaddingLeft(1)
	t.Blurred.Title = styles.SecondaryText
	t.Blurred.Description = lipgloss.NewStyle().Foreground(styles.Border)
	t.Blurred.TextInput.Text = styles.SecondaryText
	t.Blurred.FocusedButton = t.Focused.BlurredButton
	t.Blurred.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Border).
		Padding(0, 1)
	t.Blurred.Next = t.Blurred.FocusedButton

	return t
}
