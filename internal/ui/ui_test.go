package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/ignitionstack/fnctl/internal/services"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	previous := Output
	Output = &buf
	t.Cleanup(func() { Output = previous })
	return &buf
}

func TestRenderTable(t *testing.T) {
	table := NewTable([]string{"ID", "NAME", "ROUTE"})
	table.AddRow("1", "hello", "/hello")
	table.AddRow("2", "bye")

	rendered := RenderTable(table)
	assert.Contains(t, rendered, "NAME")
	assert.Contains(t, rendered, "hello")
	assert.Contains(t, rendered, "/hello")
	assert.Contains(t, rendered, "bye")

	assert.Equal(t, []string{"2", "bye", ""}, table.Rows[1])
}

func TestRenderPlainTable(t *testing.T) {
	table := NewTable([]string{"ID", "NAME"})
	table.AddRow("1", "hello")

	assert.Equal(t, "ID\tNAME\n1\thello\n", RenderPlainTable(table))
}

func TestFitWidths(t *testing.T) {
	assert.Equal(t, []int{10, 20}, fitWidths([]int{10, 20}, 80))

	scaled := fitWidths([]int{60, 60}, 80)
	for _, w := range scaled {
		assert.Less(t, w, 60)
		assert.GreaterOrEqual(t, w, 10)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{input: "hello", width: 10, expected: "hello"},
		{input: "hello world", width: 8, expected: "hello..."},
		{input: "hello", width: 2, expected: "he"},
		{input: "hello", width: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateWithEllipsis(tt.input, tt.width))
		})
	}
}

func TestRenderBars(t *testing.T) {
	assert.Empty(t, RenderBars(nil, 20))

	rendered := RenderBars([]BarItem{
		{Label: "python", Value: 10},
		{Label: "node", Value: 5},
		{Label: "go", Value: 0},
	}, 20)

	lines := strings.Split(rendered, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, 20, strings.Count(lines[0], barGlyph))
	assert.Equal(t, 10, strings.Count(lines[1], barGlyph))
	assert.Equal(t, 0, strings.Count(lines[2], barGlyph))
	assert.True(t, strings.HasSuffix(lines[0], " 10"))
}

func TestRenderBarsMinimumCell(t *testing.T) {
	rendered := RenderBars([]BarItem{{Label: "a", Value: 1000}, {Label: "b", Value: 1}}, 10)
	lines := strings.Split(rendered, "\n")
	assert.Equal(t, 1, strings.Count(lines[1], barGlyph))
}

func TestRenderRatio(t *testing.T) {
	assert.Equal(t, 10, lipgloss.Width(RenderRatio(3, 1, 10)))
	assert.Equal(t, 10, strings.Count(RenderRatio(3, 1, 10), barGlyph))
	assert.Equal(t, 0, strings.Count(RenderRatio(0, 0, 10), barGlyph))
}

func TestHighlightOutput(t *testing.T) {
	assert.Equal(t, "hi\n", HighlightOutput("hi\n"))
	assert.Equal(t, "", HighlightOutput(""))

	highlighted := HighlightOutput(`{"greeting":"hi"}`)
	assert.Contains(t, highlighted, "greeting")
	assert.Contains(t, highlighted, "\n")
}

func TestWrapOutput(t *testing.T) {
	assert.Equal(t, "hello\nworld", WrapOutput("hello world", 6))
	assert.Equal(t, "abcd\nefgh", WrapOutput("abcdefgh", 4))
	assert.Equal(t, "untouched", WrapOutput("untouched", 0))
}

func TestRunNotifier(t *testing.T) {
	t.Run("plain success", func(t *testing.T) {
		buf := captureOutput(t)
		RunNotifier{Plain: true}.Notify(services.Outcome{ID: 1, Success: true, Output: "hi", Message: "Output:\nhi"})
		assert.Equal(t, "Output:\nhi\n", buf.String())
	})

	t.Run("plain failure", func(t *testing.T) {
		buf := captureOutput(t)
		RunNotifier{Plain: true}.Notify(services.Outcome{ID: 1, Message: "Error running function: timeout"})
		assert.Equal(t, "Error running function: timeout\n", buf.String())
	})

	t.Run("styled success", func(t *testing.T) {
		buf := captureOutput(t)
		RunNotifier{Width: 40}.Notify(services.Outcome{ID: 3, Success: true, Output: "hi", Message: "Output:\nhi"})
		assert.Contains(t, buf.String(), "Function 3 ran")
		assert.Contains(t, buf.String(), "Output:")
		assert.Contains(t, buf.String(), "hi")
	})

	t.Run("styled failure", func(t *testing.T) {
		buf := captureOutput(t)
		RunNotifier{}.Notify(services.Outcome{ID: 1, Message: "Error running function: timeout"})
		assert.Contains(t, buf.String(), "Error running function: timeout")
	})
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintSuccess("created")
	PrintError("boom")
	PrintInfo("Fetched", "now")
	PrintEmptyState("No functions")

	out := buf.String()
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Fetched:")
	assert.Contains(t, out, "No functions")
}
