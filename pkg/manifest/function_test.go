package manifest

import (
	"os"
	"path/filepath"
	"testing"

	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		expected    types.FunctionDraft
		expectedErr error
		shouldError bool
	}{
		{
			name: "yaml",
			file: "fn.yaml",
			content: `function:
  name: hello
  route: /hello
  language: node
  timeout: 10
  filename: hello.js
`,
			expected: types.FunctionDraft{Name: "hello", Route: "/hello", Language: "node", Timeout: 10, Filename: "hello.js"},
		},
		{
			name:     "yml defaults",
			file:     "fn.yml",
			content:  "function:\n  name: hello\n  route: /hello\n",
			expected: types.FunctionDraft{Name: "hello", Route: "/hello", Language: "python", Timeout: 5},
		},
		{
			name: "toml",
			file: "fn.toml",
			content: `[function]
name = "hello"
route = "/hello"
timeout = 3
`,
			expected: types.FunctionDraft{Name: "hello", Route: "/hello", Language: "python", Timeout: 3},
		},
		{
			name:        "unknown yaml key",
			file:        "fn.yaml",
			content:     "function:\n  name: hello\n  memory: 128\n",
			shouldError: true,
		},
		{
			name:        "unknown toml key",
			file:        "fn.toml",
			content:     "[function]\nname = \"hello\"\nmemory = 128\n",
			shouldError: true,
		},
		{
			name:        "unsupported extension",
			file:        "fn.json",
			content:     "{}",
			shouldError: true,
			expectedErr: fnerrors.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			m, err := Load(path)
			if tt.shouldError {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Draft())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	fn := types.Function{ID: 4, Name: "hello", Route: "/hello", Language: "node", Timeout: 10, Filename: "hello.js"}

	for _, format := range []string{FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			m := FromFunction(fn)

			data, err := m.Marshal(format)
			require.NoError(t, err)
			assert.Contains(t, string(data), "hello.js")

			parsed, err := Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, fn.Draft(), parsed.Draft())
		})
	}

	m := FromFunction(fn)
	_, err := m.Marshal("xml")
	assert.ErrorIs(t, err, fnerrors.ErrUnsupportedFormat)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b/fn.YML"))
	assert.Equal(t, FormatTOML, FormatFromPath("fn.toml"))
	assert.Empty(t, FormatFromPath("fn"))
}
