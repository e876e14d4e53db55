package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary = lipgloss.Color("86")  // Cyan
	colorSuccess = lipgloss.Color("82")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorDanger  = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("245") // Light gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	priceStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	// WarningStyle is used by commands for non-fatal notes.
	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// SuccessStyle is used by commands for confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	// HeaderStyle is used by commands for section headers.
	HeaderStyle = titleStyle

	// LabelStyle and ValueStyle render key/value summaries.
	LabelStyle = labelStyle
	ValueStyle = valueStyle
)

// RatingColor maps an R² value to a color: green for good fits, orange for
// moderate ones and red below.
func RatingColor(r2 float64) lipgloss.Color {
	switch {
	case r2 >= 0.6:
		return colorSuccess
	case r2 >= 0.4:
		return colorWarning
	default:
		return colorDanger
	}
}
