package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	SuccessSymbol = "✓"
	ErrorSymbol   = "✗"
	InfoSymbol    = "ℹ"
	WarningSymbol = "⚠"
	BulletSymbol  = "•"
)

// Output is where command output goes. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

// PrintLogo prints the fnctl banner.
func PrintLogo() {
	if TerminalWidth() < 80 {
		fmt.Fprintln(Output, TitleStyle.Render("fnctl"))
		return
	}

	logo := `█▀▀ █▄░█ █▀▀ ▀█▀ █░░
█▀░ █░▀█ █▄▄ ░█░ █▄▄`

	colors := []string{SecondaryColor, InfoColor}
	for i, line := range strings.Split(logo, "\n") {
		fmt.Fprintln(Output, lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)])).Render(line))
	}

	fmt.Fprintln(Output, SubtitleStyle.Render("Serverless Function Console"))
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Fprintln(Output, lipgloss.NewStyle().
		Foreground(lipgloss.Color(SuccessColor)).
		Bold(true).
		Render(SuccessSymbol+" "+message))
}

// PrintError prints an error message in a red box.
func PrintError(message string) {
	fmt.Fprintln(Output, ErrorBox("Error: "+message))
}

// ErrorBox renders text in the red error box.
func ErrorBox(text string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ErrorColor)).
		Padding(0, 1).
		Render(ErrorStyle.Bold(true).Render(ErrorSymbol + " " + text))
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Fprintln(Output, WarningStyle.Bold(true).Render(WarningSymbol+" "+message))
}

// PrintInfo prints a label and value pair.
func PrintInfo(label, value string) {
	fmt.Fprintf(Output, "%s %s\n",
		DimStyle.Bold(true).Render(label+":"),
		InfoStyle.Render(value))
}

// PrintSection prints a section heading.
func PrintSection(title string) {
	fmt.Fprintln(Output, SectionStyle.Render(title))
}

// PrintEmptyState shows a message when no data is available.
func PrintEmptyState(message string) {
	fmt.Fprintln(Output, DimStyle.Italic(true).Render(message))
}

// StyleSuccessValue renders a success flag as a colored word.
func StyleSuccessValue(success bool) string {
	if success {
		return SuccessStyle.Render(SuccessSymbol + " success")
	}
	return ErrorStyle.Render(ErrorSymbol + " failure")
}

// Table represents a formatted table with headers and rows.
type Table struct {
	Headers     []string
	Rows        [][]string
	ColumnWidth []int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	columnWidth := make([]int, len(headers))
	for i, h := range headers {
		columnWidth[i] = lipgloss.Width(h) + 4
	}
	return &Table{
		Headers:     headers,
		Rows:        [][]string{},
		ColumnWidth: columnWidth,
	}
}

// AddRow adds a new row to the table. Missing cells are left empty and
// extra ones dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.Headers))
	copy(row, values)

	for i, v := range row {
		if w := lipgloss.Width(v) + 4; w > t.ColumnWidth[i] {
			t.ColumnWidth[i] = w
		}
	}

	t.Rows = append(t.Rows, row)
}

// RenderTable renders the table with styled headers and alternating rows.
func RenderTable(table *Table) string {
	widths := fitWidths(table.ColumnWidth, TerminalWidth())

	var tableRows []string
	header := formatRow(table.Headers, widths)
	tableRows = append(tableRows, TableHeaderStyle.Render(header))
	tableRows = append(tableRows, DimStyle.Render(strings.Repeat("─", lipgloss.Width(header))))

	for i, row := range table.Rows {
		style := TableRowStyle
		if i%2 == 1 {
			style = style.Background(lipgloss.Color(AlternatingRowDark))
		}
		tableRows = append(tableRows, style.Render(formatRow(row, widths)))
	}

	return fmt.Sprintf("\n%s\n", lipgloss.JoinVertical(lipgloss.Left, tableRows...))
}

// RenderPlainTable renders the table as tab separated lines for scripting.
func RenderPlainTable(table *Table) string {
	var b strings.Builder
	b.WriteString(strings.Join(table.Headers, "\t"))
	b.WriteString("\n")
	for _, row := range table.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// fitWidths scales column widths down proportionally when they would
// overflow the terminal.
func fitWidths(columnWidth []int, termWidth int) []int {
	widths := make([]int, len(columnWidth))
	copy(widths, columnWidth)

	total := 0
	for _, w := range widths {
		total += w
	}

	if total > termWidth && termWidth > 40 {
		scale := float64(termWidth-10) / float64(total)
		for i := range widths {
			widths[i] = int(float64(widths[i]) * scale)
			if widths[i] < 10 {
				widths[i] = 10
			}
		}
	}
	return widths
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = TruncateWithEllipsis(cell, widths[i]-1)
		parts[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
	}
	return strings.Join(parts, " ")
}
