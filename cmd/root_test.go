package cmd

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/ignitionstack/fnctl/internal/ui"
	fntest "github.com/ignitionstack/fnctl/pkg/testing"
	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var helloFn = types.Function{ID: 1, Name: "hello", Route: "/hello", Language: "python", Timeout: 5}

func setupBackend(t *testing.T) *fntest.FakeBackend {
	backend := fntest.NewFakeBackend()
	t.Cleanup(backend.Close)
	backend.Seed(helloFn)
	return backend
}

// resetFlags restores every flag in the tree to its default; cobra keeps
// values between executions of the same command
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs fnctl in plain mode against the backend and returns stdout
func execute(t *testing.T, backend *fntest.FakeBackend, args ...string) (string, error) {
	t.Setenv("FNCTL_CACHE_ENABLED", "false")

	var buf bytes.Buffer
	previous := ui.Output
	ui.Output = &buf
	t.Cleanup(func() { ui.Output = previous })

	base := []string{
		"--plain",
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--api", backend.URL(),
	}
	resetFlags(rootCmd)
	rootCmd.SetArgs(append(base, args...))

	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, shutdown())
	return buf.String(), err
}

func TestFunctionList(t *testing.T) {
	backend := setupBackend(t)

	out, err := execute(t, backend, "function", "list")
	require.NoError(t, err)
	assert.Equal(t, "ID\tNAME\tROUTE\tLANGUAGE\tTIMEOUT\tFILENAME\n1\thello\t/hello\tpython\t5s\t\n", out)
}

func TestFunctionListBackendDown(t *testing.T) {
	backend := setupBackend(t)
	backend.Fail("list", http.StatusInternalServerError, "database unavailable")

	_, err := execute(t, backend, "function", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestFunctionCreate(t *testing.T) {
	backend := setupBackend(t)

	_, err := execute(t, backend, "function", "create", "--name", "bye", "--route", "/bye", "--timeout", "9")
	require.NoError(t, err)

	fn, ok := backend.Function(2)
	require.True(t, ok)
	assert.Equal(t, types.Function{ID: 2, Name: "bye", Route: "/bye", Language: "python", Timeout: 9}, fn)
}

func TestFunctionCreateFromManifest(t *testing.T) {
	backend := setupBackend(t)

	exported, err := execute(t, backend, "function", "export", "1", "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, exported, `name = "hello"`)

	path := filepath.Join(t.TempDir(), "hello.toml")
	_, err = execute(t, backend, "function", "export", "1", "-o", path)
	require.NoError(t, err)

	_, err = execute(t, backend, "function", "create", "--from", path, "--name", "hello-copy")
	require.NoError(t, err)

	fn, ok := backend.Function(2)
	require.True(t, ok)
	assert.Equal(t, "hello-copy", fn.Name)
	assert.Equal(t, "/hello", fn.Route)
}

func TestFunctionEdit(t *testing.T) {
	backend := setupBackend(t)

	_, err := execute(t, backend, "function", "edit", "1", "--timeout", "30")
	require.NoError(t, err)

	fn, _ := backend.Function(1)
	assert.Equal(t, 30, fn.Timeout)
	assert.Equal(t, "hello", fn.Name)

	_, err = execute(t, backend, "function", "edit", "99", "--timeout", "30")
	assert.Error(t, err)
}

func TestFunctionDelete(t *testing.T) {
	backend := setupBackend(t)

	_, err := execute(t, backend, "function", "delete", "abc")
	assert.Error(t, err)

	_, err = execute(t, backend, "function", "delete", "1")
	require.NoError(t, err)

	_, ok := backend.Function(1)
	assert.False(t, ok)
}

func TestRun(t *testing.T) {
	backend := setupBackend(t)

	backend.SetRun(1, fntest.RunResult{Output: "hi"})
	out, err := execute(t, backend, "run", "1")
	require.NoError(t, err)
	assert.Equal(t, "Output:\nhi\n", out)

	backend.SetRun(1, fntest.RunResult{Status: http.StatusInternalServerError, Detail: "timeout"})
	out, err = execute(t, backend, "run", "1")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "Error running function: timeout\n", out)
}

func TestDashboard(t *testing.T) {
	backend := setupBackend(t)
	backend.SeedMetrics(
		types.ExecutionMetric{Runtime: "python", Duration: 1.0, Success: true, Timestamp: 1000},
		types.ExecutionMetric{Runtime: "python", Duration: 2.0, Success: false, Timestamp: 1001},
		types.ExecutionMetric{Runtime: "node", Duration: 0.0, Success: true, Timestamp: 1002},
	)

	out, err := execute(t, backend, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "total\t3\n")
	assert.Contains(t, out, "success\t2\n")
	assert.Contains(t, out, "failure\t1\n")
	assert.Contains(t, out, "average_duration\t1.00\n")
	assert.Contains(t, out, "runtime.python\t2\n")
	assert.Contains(t, out, "runtime.node\t1\n")
	assert.Contains(t, out, "ID\tNAME\tROUTE\tLANGUAGE\tTIMEOUT\tFILENAME\n1\thello\t/hello\tpython\t5s\t\n")
	assert.Equal(t, 1, backend.Calls().Metrics)

	out, err = execute(t, backend, "dashboard", "--runtime", "python", "--success", "false")
	require.NoError(t, err)
	assert.Contains(t, out, "total\t1\n")
	assert.Contains(t, out, "average_duration\t2.00\n")
}
