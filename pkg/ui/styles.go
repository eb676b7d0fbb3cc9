// Package ui renders memory store results for the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every renderer.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // headings
	coralPink   = lipgloss.Color("#FFCCCB") // ids
	mintGreen   = lipgloss.Color("#A8E6CF") // high confidence
	amber       = lipgloss.Color("#FFD59E") // medium confidence
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // titles
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	idStyle = lipgloss.NewStyle().
		Foreground(coralPink)

	titleStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	supersededStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Strikethrough(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// confidenceStyle colors a confidence value by bucket.
func confidenceStyle(c float64) lipgloss.Style {
	switch {
	case c >= 0.9:
		return lipgloss.NewStyle().Foreground(mintGreen)
	case c >= 0.6:
		return lipgloss.NewStyle().Foreground(amber)
	default:
		return lipgloss.NewStyle().Foreground(salmonPink)
	}
}
