package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/techtrack/internal/model"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

var frameStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

func statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.Completed:
		return successStyle
	case model.InProgress:
		return progressStyle
	}
	return pendingStyle
}

func statusIcon(s model.Status) string {
	switch s {
	case model.Completed:
		return "✓"
	case model.InProgress:
		return "↻"
	}
	return "○"
}
