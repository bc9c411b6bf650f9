// Package tui provides an interactive terminal admin console for gitpress.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI
var (
	primaryColor = lipgloss.Color("#7C3AED") // Violet
	accentColor  = lipgloss.Color("#10B981") // Emerald
	errorColor   = lipgloss.Color("#EF4444") // Red
	successColor = lipgloss.Color("#22C55E") // Green
	mutedColor   = lipgloss.Color("#6C7086") // Muted text
	borderColor  = lipgloss.Color("#45475A") // Border
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(primaryColor).
	MarginBottom(1).
	Padding(0, 1)

var labelStyle = lipgloss.NewStyle().
	Foreground(accentColor).
	Bold(true)

var valueStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#CDD6F4"))

var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

var errorStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var successStyle = lipgloss.NewStyle().
	Foreground(successColor).
	Bold(true)

var detailBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(1, 2)

var confirmStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true).
	MarginTop(1)
