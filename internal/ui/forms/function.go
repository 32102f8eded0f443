package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/pkg/types"
)

// ErrAborted is returned when the user leaves a form without submitting
var ErrAborted = errors.New("form aborted")

// Languages offered by the function form
var Languages = []huh.Option[string]{
	huh.NewOption("Python", "python"),
	huh.NewOption("Node.js", "node"),
	huh.NewOption("Go", "go"),
	huh.NewOption("Ruby", "ruby"),
}

func theme() *huh.Theme {
	baseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ui.InfoColor))

	t := huh.ThemeBase()
	t.Focused.Title = baseStyle.Bold(true)
	t.Focused.SelectedOption = ui.SelectStyle
	t.Focused.SelectSelector = baseStyle
	t.Focused.ErrorMessage = ui.ErrorStyle
	return t
}

// languageOptions returns the known languages plus current when it is not
// one of them
func languageOptions(current string) []huh.Option[string] {
	options := append([]huh.Option[string](nil), Languages...)
	for _, option := range options {
		if option.Value == current {
			return options
		}
	}
	if current != "" {
		options = append(options, huh.NewOption(current, current))
	}
	return options
}

func validateTimeout(s string) error {
	timeout, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("timeout must be a whole number of seconds")
	}
	if timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// NewFunctionForm builds a form bound to draft. Values are written back to
// draft when the form completes.
func NewFunctionForm(title string, draft *types.FunctionDraft) (*huh.Form, func()) {
	timeout := strconv.Itoa(draft.Timeout)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title("Name").
				Value(&draft.Name),
			huh.NewInput().
				Title("Route").
				Placeholder("/my-function").
				Value(&draft.Route),
			huh.NewSelect[string]().
				Title("Language").
				Options(languageOptions(draft.Language)...).
				Value(&draft.Language),
			huh.NewInput().
				Title("Timeout (seconds)").
				Validate(validateTimeout).
				Value(&timeout),
			huh.NewInput().
				Title("Filename").
				Placeholder("handler.py").
				Value(&draft.Filename),
		),
	).WithTheme(theme())

	commit := func() {
		if t, err := strconv.Atoi(strings.TrimSpace(timeout)); err == nil {
			draft.Timeout = t
		}
	}
	return form, commit
}

// EditFunction runs the function form over draft. It returns ErrAborted when
// the user quits without submitting.
func EditFunction(title string, draft *types.FunctionDraft) error {
	form, commit := NewFunctionForm(title, draft)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("error during function form: %w", err)
	}
	commit()
	return nil
}

// Confirm asks a yes/no question
func Confirm(question string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	)).WithTheme(theme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("error during confirmation: %w", err)
	}
	return confirmed, nil
}
