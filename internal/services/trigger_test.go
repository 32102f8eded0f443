package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignitionstack/fnctl/pkg/apiclient"
	fntest "github.com/ignitionstack/fnctl/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	outcomes []Outcome
}

func (n *recordingNotifier) Notify(outcome Outcome) {
	n.outcomes = append(n.outcomes, outcome)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		run      *fntest.RunResult
		expected Outcome
	}{
		{
			name:     "success",
			run:      &fntest.RunResult{Output: "hi"},
			expected: Outcome{ID: 1, Success: true, Output: "hi", Message: "Output:\nhi"},
		},
		{
			name:     "backend detail",
			run:      &fntest.RunResult{Status: http.StatusInternalServerError, Detail: "timeout"},
			expected: Outcome{ID: 1, Message: "Error running function: timeout"},
		},
		{
			name:     "no code uploaded",
			expected: Outcome{ID: 1, Message: "Error running function: No code found for this function."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := setupRegistry(t, helloFn)
			if tt.run != nil {
				setup.backend.SetRun(1, *tt.run)
			}

			notifier := &recordingNotifier{}
			trigger := NewExecutionTrigger(setup.client, notifier, nil)

			outcome := trigger.Run(context.Background(), 1)
			assert.Equal(t, tt.expected, outcome)
			assert.Equal(t, []Outcome{tt.expected}, notifier.outcomes)
			assert.Equal(t, []int{1}, setup.backend.Calls().Run)
		})
	}
}

func TestRunIgnoresLocalCatalog(t *testing.T) {
	setup := setupRegistry(t)

	trigger := NewExecutionTrigger(setup.client, nil, nil)
	outcome := trigger.Run(context.Background(), 42)

	assert.False(t, outcome.Success)
	assert.Equal(t, "Error running function: Function not found", outcome.Message)
	assert.Equal(t, []int{42}, setup.backend.Calls().Run)
}

func TestRunTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := apiclient.New(apiclient.Options{BaseURL: url})
	require.NoError(t, err)

	var notified []Outcome
	trigger := NewExecutionTrigger(client, NotifierFunc(func(o Outcome) {
		notified = append(notified, o)
	}), nil)

	outcome := trigger.Run(context.Background(), 1)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "Error running function: failed to send run request")
	require.Len(t, notified, 1)
	assert.Equal(t, outcome, notified[0])
}
