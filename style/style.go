package style

import (
	"charm.land/lipgloss/v2"
)

var (
	BorderColor = lipgloss.Color("240")                                 // Subtle warm grey border
	HlRowStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")) // Very subtle warm grey row
	HlCellStyle = lipgloss.NewStyle().Background(lipgloss.Color("237")) // Slightly warmer cell
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")) // Warm muted grey text
	GroupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	UnStyle     = lipgloss.NewStyle()
)

// DialogStyle is the bordered box around a modal panel.
func DialogStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		Width(width)
}

// CellStyler returns a StyleFunc that highlights the selected cell and row
func CellStyler(selectedRow, selectedCol int) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row != selectedRow {
			return UnStyle
		}
		if col == selectedCol {
			return HlCellStyle
		}
		return HlRowStyle
	}
}
