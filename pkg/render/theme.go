package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles used when printing a backtrace.
type Theme struct {
	Name     string
	Function lipgloss.Style // frame function names
	Panic    lipgloss.Style // panic line and message
	Hidden   lipgloss.Style // hidden-run banners
	Target   lipgloss.Style // the reported line inside a code snippet
}

// DefaultTheme returns the standard ANSI color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:     "default",
		Function: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		Panic:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		Hidden:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		Target:   lipgloss.NewStyle().Bold(true),
	}
}

// MonoTheme returns a colorless theme for NO_COLOR environments.
func MonoTheme() Theme {
	return Theme{
		Name:     "mono",
		Function: lipgloss.NewStyle(),
		Panic:    lipgloss.NewStyle(),
		Hidden:   lipgloss.NewStyle(),
		Target:   lipgloss.NewStyle().Bold(true),
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
