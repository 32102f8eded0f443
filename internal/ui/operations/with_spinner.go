package operations

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/models/spinner"
)

type OperationFunc func() (interface{}, error)

type DisplayFunc func(result interface{})

// Plain disables the spinner; operations run inline. Set from --plain and
// in CI.
var Plain bool

// WithSpinner runs operation while a spinner shows message, then hands the
// result to display
func WithSpinner(message string, operation OperationFunc, display DisplayFunc) error {
	if Plain || ui.IsCI() {
		result, err := operation()
		if err != nil {
			return err
		}
		if display != nil {
			display(result)
		}
		return nil
	}

	program := tea.NewProgram(spinner.NewSpinnerModelWithMessage(message))

	go func() {
		result, err := operation()
		if err != nil {
			program.Send(spinner.ErrorMsg{Err: err})
			return
		}
		program.Send(spinner.ResultMsg{Result: result})
	}()

	model, err := program.Run()
	if err != nil {
		return err
	}

	finalModel, ok := model.(spinner.SpinnerModel)
	if !ok {
		return fmt.Errorf("program finished with invalid model")
	}

	if finalModel.HasError() {
		return finalModel.GetError()
	}

	if display != nil && finalModel.HasResult() {
		display(finalModel.GetResult())
	}

	return nil
}
