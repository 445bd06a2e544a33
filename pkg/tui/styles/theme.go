package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the palette and base styles for the action rows.
type Theme struct {
	Running   lipgloss.Style
	Finished  lipgloss.Style
	Canceled  lipgloss.Style
	Pending   lipgloss.Style
	Separator lipgloss.Style
	Kind      lipgloss.Style
	Content   lipgloss.Style
	Banner    lipgloss.Style
	Prompt    lipgloss.Style
}

func DefaultTheme() Theme {
	blue := lipgloss.Color("4")
	green := lipgloss.Color("2")
	red := lipgloss.Color("1")
	cyan := lipgloss.Color("6")
	gray := lipgloss.Color("8")
	white := lipgloss.Color("7")

	return Theme{
		Running:   lipgloss.NewStyle().Foreground(blue),
		Finished:  lipgloss.NewStyle().Foreground(green),
		Canceled:  lipgloss.NewStyle().Foreground(red),
		Pending:   lipgloss.NewStyle(),
		Separator: lipgloss.NewStyle().Foreground(gray),
		Kind:      lipgloss.NewStyle().Foreground(cyan),
		Content:   lipgloss.NewStyle().Foreground(white),
		Banner:    lipgloss.NewStyle().Foreground(white),
		Prompt:    lipgloss.NewStyle().Bold(true),
	}
}

var DefaultStyles = DefaultTheme()
