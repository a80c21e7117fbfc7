package tui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the feed UI.
type Theme struct {
	Header   lipgloss.Style
	Mode     lipgloss.Style
	Stats    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Faint    lipgloss.Style
	SOP      lipgloss.Style
	Iter     lipgloss.Style
	Detail   lipgloss.Style
	Label    lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Header:   lipgloss.NewStyle().Bold(true),
		Mode:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Stats:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Row:      lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Reverse(true),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		SOP:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Iter:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}
