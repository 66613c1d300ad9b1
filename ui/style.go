package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Colorize applies the given color to the text using lipgloss.
// color is the integer representation from Modrinth.
func Colorize(text string, color int) string {
	// Convert Modrinth color int to hex string
	hexColor := fmt.Sprintf("#%06x", color)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))

	return style.Render(text)
}

// Shared styles for the browse and instances views.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)
