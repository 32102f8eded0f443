package forms

import (
	"testing"

	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		input       string
		shouldError bool
	}{
		{input: "5"},
		{input: " 30 "},
		{input: "0"},
		{input: "-1", shouldError: true},
		{input: "five", shouldError: true},
		{input: "", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateTimeout(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLanguageOptions(t *testing.T) {
	assert.Len(t, languageOptions("python"), len(Languages))
	assert.Len(t, languageOptions(""), len(Languages))

	options := languageOptions("rust")
	assert.Len(t, options, len(Languages)+1)
	assert.Equal(t, "rust", options[len(options)-1].Value)

	// the shared list is never modified
	assert.Len(t, Languages, 4)
}

func TestNewFunctionForm(t *testing.T) {
	draft := types.NewFunctionDraft()
	form, commit := NewFunctionForm("New function", &draft)

	assert.NotNil(t, form)
	commit()
	assert.Equal(t, types.NewFunctionDraft(), draft)
}
