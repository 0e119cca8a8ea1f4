// Package styles provides Lipgloss styles for the frame picker.
package styles

import "github.com/charmbracelet/lipgloss"

// Colour palette (dark slate with a film-leader amber accent)
const (
	// Base is the main background colour
	Base = lipgloss.Color("#15181E")
	// Surface is the panel and status bar background
	Surface = lipgloss.Color("#1F232B")
	// Border is the dim frame colour for boxes and separators
	Border = lipgloss.Color("#4A505C")
	// Focus marks highlighted rows and buttons
	Focus = lipgloss.Color("#5D6B8A")
	// Muted is secondary text
	Muted = lipgloss.Color("#9AA3B2")
	// Text is primary text
	Text = lipgloss.Color("#E6E9EF")
	// Accent is used for headers and the playhead
	Accent = lipgloss.Color("#E8A33D")
	// Info is used for marks and interactive hints
	Info = lipgloss.Color("#56B6C2")
	// Red is used for warnings and errors
	Red = lipgloss.Color("#D0555B")
	// Green is used for success messages
	Green = lipgloss.Color("#8FBF6A")
)

// PrimaryText is the style for primary text content
var PrimaryText = lipgloss.NewStyle().
	Foreground(Text)

// SecondaryText is the style for less prominent text
var SecondaryText = lipgloss.NewStyle().
	Foreground(Muted)

// Header is the style for box titles
var Header = lipgloss.NewStyle().
	Foreground(Accent).
	Bold(true)

// Mark is the style for range marks
var Mark = lipgloss.NewStyle().
	Foreground(Info).
	Bold(true)

// Warning is the style for warning messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)
