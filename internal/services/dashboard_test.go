package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleMetrics = []types.ExecutionMetric{
	{Runtime: "python", Duration: 1.0, Success: true, Timestamp: 1000},
	{Runtime: "python", Duration: 2.0, Success: false, Timestamp: 1001},
	{Runtime: "node", Duration: 0.0, Success: true, Timestamp: 1002},
}

func setupDashboard(t *testing.T) (*testSetup, *DashboardController) {
	setup := setupRegistry(t, helloFn)
	setup.backend.SeedMetrics(sampleMetrics...)

	dashboard := NewDashboardController(setup.client, setup.registry, setup.store, nil)
	dashboard.now = func() time.Time { return time.Unix(1700000000, 0) }
	return setup, dashboard
}

func TestDashboardInitFetchesOnce(t *testing.T) {
	setup, dashboard := setupDashboard(t)
	ctx := context.Background()

	require.NoError(t, dashboard.Init(ctx))
	require.NoError(t, dashboard.Init(ctx))

	// catalog operations never refetch metrics
	require.NoError(t, setup.registry.Load(ctx))
	setup.registry.SetDraft(types.FunctionDraft{Name: "f", Route: "/f", Language: "python", Timeout: 5})
	require.NoError(t, setup.registry.Create(ctx))
	NewExecutionTrigger(setup.client, nil, nil).Run(ctx, 1)

	assert.Equal(t, 1, setup.backend.Calls().Metrics)
	assert.Equal(t, sampleMetrics, dashboard.Metrics())
}

func TestDashboardInitConcurrent(t *testing.T) {
	setup, dashboard := setupDashboard(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = dashboard.Init(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, setup.backend.Calls().Metrics)
}

func TestDashboardSummary(t *testing.T) {
	_, dashboard := setupDashboard(t)
	require.NoError(t, dashboard.Init(context.Background()))

	summary := dashboard.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Equal(t, 1.0, summary.AverageDuration)
	assert.Equal(t, map[string]int{"python": 2, "node": 1}, summary.RuntimeMap())
}

func TestDashboardView(t *testing.T) {
	setup, dashboard := setupDashboard(t)
	ctx := context.Background()

	require.NoError(t, setup.registry.Load(ctx))
	require.NoError(t, dashboard.Init(ctx))

	view := dashboard.View()
	assert.Equal(t, sampleMetrics, view.Metrics)
	assert.Equal(t, []types.Function{helloFn}, view.Functions)
	assert.Equal(t, 3, view.Summary.Total)
	assert.Equal(t, int64(1700000000), view.FetchedAt.Unix())
	assert.False(t, view.Stale)
	assert.Same(t, setup.registry, dashboard.Registry())
}

func TestDashboardFailure(t *testing.T) {
	t.Run("empty snapshot without cache", func(t *testing.T) {
		setup, dashboard := setupDashboard(t)
		setup.backend.Fail("metrics", http.StatusInternalServerError, "metrics store down")

		err := dashboard.Init(context.Background())
		require.Error(t, err)

		view := dashboard.View()
		assert.Empty(t, view.Metrics)
		assert.Equal(t, 0, view.Summary.Total)
		assert.Equal(t, 0.0, view.Summary.AverageDuration)
		assert.True(t, view.FetchedAt.IsZero())

		// the failure is remembered, not retried
		setup.backend.Recover("metrics")
		assert.Error(t, dashboard.Init(context.Background()))
		assert.Equal(t, 1, setup.backend.Calls().Metrics)
	})

	t.Run("falls back to cached snapshot", func(t *testing.T) {
		setup, first := setupDashboard(t)
		require.NoError(t, first.Init(context.Background()))

		setup.backend.Fail("metrics", http.StatusInternalServerError, "metrics store down")
		second := NewDashboardController(setup.client, setup.registry, setup.store, nil)

		require.Error(t, second.Init(context.Background()))
		view := second.View()
		assert.True(t, view.Stale)
		assert.Equal(t, sampleMetrics, view.Metrics)
	})
}

func TestDashboardMetricsReturnsCopy(t *testing.T) {
	_, dashboard := setupDashboard(t)
	require.NoError(t, dashboard.Init(context.Background()))

	records := dashboard.Metrics()
	records[0].Runtime = "mutated"

	assert.Equal(t, "python", dashboard.Metrics()[0].Runtime)
}
