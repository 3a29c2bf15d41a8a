package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAxis   = "#585B70"
	colorMuted  = "#A6ADC8"
	colorText   = "#CDD6F4"
	colorAccent = "#CBA6F7"
	colorError  = "#F38BA8"
	colorKey    = "#74C7EC"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	windowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAxis))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorKey)).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	tooltipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color("#313244")).
			PaddingLeft(1).
			PaddingRight(1)
)

// swatch is a two-cell color sample for the legend.
func swatch(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}
