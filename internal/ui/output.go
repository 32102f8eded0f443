package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/ignitionstack/fnctl/internal/services"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// HighlightOutput pretty prints and colors function output that is valid
// JSON. Anything else is returned unchanged.
func HighlightOutput(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return output
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(trimmed), "", "  "); err != nil {
		return output
	}

	var highlighted bytes.Buffer
	if err := quick.Highlight(&highlighted, pretty.String(), "json", "terminal256", "monokai"); err != nil {
		return pretty.String()
	}
	return highlighted.String()
}

// WrapOutput soft wraps text at word boundaries and hard wraps words longer
// than width.
func WrapOutput(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}

// CopyToClipboard places text on the system clipboard
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// RunNotifier prints run outcomes to Output
type RunNotifier struct {
	Plain bool
	Width int
}

// Notify prints the outcome message. Styled mode shows output in a box with
// JSON highlighted; plain mode prints the message verbatim.
func (n RunNotifier) Notify(outcome services.Outcome) {
	if n.Plain {
		fmt.Fprintln(Output, outcome.Message)
		return
	}

	if !outcome.Success {
		fmt.Fprintln(Output, ErrorBox(outcome.Message))
		return
	}

	width := n.Width
	if width <= 0 {
		width = TerminalWidth() - 4
	}

	PrintSuccess(fmt.Sprintf("Function %d ran", outcome.ID))
	body := HighlightOutput(outcome.Output)
	if body == outcome.Output {
		body = WrapOutput(body, width)
	}
	fmt.Fprintln(Output, BoxStyle.Render(HeaderStyle.Render("Output:")+"\n"+strings.TrimRight(body, "\n")))
}
