// Package ui holds the lipgloss styles shared by the TUI screens.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFAA00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#888888")
	ColorDimGray = lipgloss.Color("#666666")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorBlack   = lipgloss.Color("#000000")
)

// Theme is the style set for one display palette.
type Theme struct {
	Title     lipgloss.Style
	Status    lipgloss.Style
	Controls  lipgloss.Style
	Error     lipgloss.Style
	PageText  lipgloss.Style
	Highlight lipgloss.Style
	Paused    lipgloss.Style
	Speaking  lipgloss.Style
}

// NewTheme builds the style set for the dark or light palette.
func NewTheme(dark bool) Theme {
	text := ColorWhite
	highlightFg := ColorBlack
	if !dark {
		text = ColorBlack
		highlightFg = ColorWhite
	}

	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan),

		Status: lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1),

		Controls: lipgloss.NewStyle().
			Foreground(ColorDimGray).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorRed),

		PageText: lipgloss.NewStyle().
			Foreground(text),

		Highlight: lipgloss.NewStyle().
			Foreground(highlightFg).
			Background(ColorYellow).
			Bold(true),

		Paused: lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true),

		Speaking: lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true),
	}
}
