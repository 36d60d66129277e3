package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	// indexed by progress band 1..5
	bandStyles = []lipgloss.Style{
		lipgloss.NewStyle(),
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("118")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}
)

func bandStyle(band *int) lipgloss.Style {
	if band == nil || *band < 1 || *band >= len(bandStyles) {
		return dimStyle
	}
	return bandStyles[*band]
}
