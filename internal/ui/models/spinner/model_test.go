package spinner

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m SpinnerModel, msg tea.Msg) (SpinnerModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	model, ok := next.(SpinnerModel)
	require.True(t, ok)
	return model, cmd
}

func TestSpinnerModel(t *testing.T) {
	tests := []struct {
		name          string
		msg           tea.Msg
		expectDone    bool
		expectErr     error
		expectResult  interface{}
		expectQuitCmd bool
	}{
		{
			name:          "result",
			msg:           ResultMsg{Result: 42},
			expectDone:    true,
			expectResult:  42,
			expectQuitCmd: true,
		},
		{
			name:          "error message",
			msg:           ErrorMsg{Err: errors.New("boom")},
			expectDone:    true,
			expectErr:     errors.New("boom"),
			expectQuitCmd: true,
		},
		{
			name:          "plain error",
			msg:           errors.New("boom"),
			expectDone:    true,
			expectErr:     errors.New("boom"),
			expectQuitCmd: true,
		},
		{
			name:          "ctrl+c",
			msg:           tea.KeyMsg{Type: tea.KeyCtrlC},
			expectDone:    true,
			expectErr:     ErrInterrupted,
			expectQuitCmd: true,
		},
		{
			name: "step update",
			msg:  "Loading functions...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := update(t, NewSpinnerModel(), tt.msg)

			assert.Equal(t, tt.expectDone, m.Done())
			assert.Equal(t, tt.expectErr, m.GetError())
			assert.Equal(t, tt.expectErr != nil, m.HasError())
			assert.Equal(t, tt.expectResult, m.GetResult())
			if tt.expectQuitCmd {
				assert.NotNil(t, cmd)
			}
		})
	}
}

func TestSpinnerView(t *testing.T) {
	m := NewSpinnerModelWithMessage("Fetching metrics...")
	assert.Contains(t, m.View(), "Fetching metrics...")

	m, _ = update(t, m, "Rendering...")
	assert.Contains(t, m.View(), "Rendering...")

	m, _ = update(t, m, ResultMsg{Result: "ok"})
	assert.Empty(t, m.View())
	assert.True(t, m.HasResult())
}
