// Package ui implements the attach terminal UI: a small status panel that
// mirrors the daemon's status file and toggles inhibition via signals.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles used by the status panel.
type Theme struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Warning  lipgloss.Style
	Subtle   lipgloss.Style
	Box      lipgloss.Style
}

// DefaultTheme returns the dark-terminal styles.
func DefaultTheme() *Theme {
	return &Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2),
	}
}
