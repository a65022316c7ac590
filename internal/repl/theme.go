package repl

import "github.com/charmbracelet/lipgloss"

// Theme centralizes console styling.
type Theme struct {
	Title   lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Pending lipgloss.Style
	Dim     lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")),
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}
