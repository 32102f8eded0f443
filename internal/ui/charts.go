package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barGlyph = "█"

// BarItem is one labelled value of a horizontal bar chart
type BarItem struct {
	Label string
	Value int
}

// RenderBars draws a horizontal bar chart. The longest bar spans width
// cells; any non-zero value gets at least one cell.
func RenderBars(items []BarItem, width int) string {
	if len(items) == 0 {
		return ""
	}
	if width < 1 {
		width = 1
	}

	maxValue, labelWidth := 0, 0
	for _, item := range items {
		if item.Value > maxValue {
			maxValue = item.Value
		}
		if w := lipgloss.Width(item.Label); w > labelWidth {
			labelWidth = w
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(HighlightColor))
	lines := make([]string, 0, len(items))
	for _, item := range items {
		length := 0
		if maxValue > 0 {
			length = item.Value * width / maxValue
		}
		if length == 0 && item.Value > 0 {
			length = 1
		}

		label := item.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(item.Label))
		lines = append(lines, fmt.Sprintf("%s %s %d",
			DimStyle.Render(label),
			barStyle.Render(strings.Repeat(barGlyph, length)),
			item.Value))
	}

	return strings.Join(lines, "\n")
}

// RenderRatio draws a two-color bar split between successes and failures.
func RenderRatio(success, failure, width int) string {
	total := success + failure
	if total == 0 || width < 1 {
		return DimStyle.Render(strings.Repeat("░", max(width, 0)))
	}

	okCells := success * width / total
	if okCells == 0 && success > 0 {
		okCells = 1
	}
	failCells := width - okCells

	return SuccessStyle.Render(strings.Repeat(barGlyph, okCells)) +
		ErrorStyle.Render(strings.Repeat(barGlyph, failCells))
}
