package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // links and urls
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	dimGray     = lipgloss.Color("#374151") // future indicators
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
	errorRed    = lipgloss.Color("203")
)

// Common Styles
var (
	// Text Styles
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true).
			Padding(0, 1)

	slideTitleStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Italic(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Underline(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed)

	notFoundStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true).
			Padding(1, 4)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	// Indicator cells
	indicatorPastStyle = lipgloss.NewStyle().
				Foreground(mutedGray)

	indicatorActiveStyle = lipgloss.NewStyle().
				Foreground(salmonPink).
				Bold(true)

	indicatorFutureStyle = lipgloss.NewStyle().
				Foreground(dimGray)

	// Container Styles
	bodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
