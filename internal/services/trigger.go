package services

import (
	"context"

	"github.com/ignitionstack/fnctl/pkg/apiclient"
	"github.com/ignitionstack/fnctl/pkg/logging"
)

const (
	outputPrefix = "Output:\n"
	errorPrefix  = "Error running function: "
)

// Outcome is the result of a single run request
type Outcome struct {
	ID      int
	Success bool
	Output  string
	Message string
}

// Notifier shows a run outcome to the user
type Notifier interface {
	Notify(outcome Outcome)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(outcome Outcome)

func (f NotifierFunc) Notify(outcome Outcome) {
	f(outcome)
}

// ExecutionTrigger runs functions by ID and reports each outcome
type ExecutionTrigger struct {
	client   apiclient.Client
	notifier Notifier
	logger   logging.Logger
}

// NewExecutionTrigger creates an execution trigger. A nil notifier discards
// outcomes; callers still get them from Run.
func NewExecutionTrigger(client apiclient.Client, notifier Notifier, logger logging.Logger) *ExecutionTrigger {
	if notifier == nil {
		notifier = NotifierFunc(func(Outcome) {})
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &ExecutionTrigger{
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
}

// Run asks the backend to execute function id. The local catalog is not
// consulted; an unknown ID is reported by the backend like any other failure.
func (t *ExecutionTrigger) Run(ctx context.Context, id int) Outcome {
	output, err := t.client.RunFunction(ctx, id)

	var outcome Outcome
	if err != nil {
		t.logger.Errorf("Error running function %d: %v", id, err)
		outcome = Outcome{
			ID:      id,
			Message: errorPrefix + apiclient.DetailMessage(err),
		}
	} else {
		outcome = Outcome{
			ID:      id,
			Success: true,
			Output:  output,
			Message: outputPrefix + output,
		}
	}

	t.notifier.Notify(outcome)
	return outcome
}
