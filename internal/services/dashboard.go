package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ignitionstack/fnctl/internal/cache"
	"github.com/ignitionstack/fnctl/pkg/apiclient"
	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/logging"
	"github.com/ignitionstack/fnctl/pkg/metrics"
	"github.com/ignitionstack/fnctl/pkg/types"
)

// DashboardView is everything the dashboard renders
type DashboardView struct {
	Summary   metrics.Summary
	Metrics   []types.ExecutionMetric
	Functions []types.Function
	FetchedAt time.Time
	Stale     bool
}

// DashboardController loads the metrics snapshot once and composes it with
// the live function catalog
type DashboardController struct {
	client   apiclient.Client
	registry *RegistryClient
	store    cache.Store
	logger   logging.Logger
	now      func() time.Time

	once      sync.Once
	initErr   error
	mutex     sync.Mutex
	records   []types.ExecutionMetric
	fetchedAt time.Time
	stale     bool
}

// NewDashboardController creates a dashboard controller around the given
// registry client
func NewDashboardController(client apiclient.Client, registry *RegistryClient, store cache.Store, logger logging.Logger) *DashboardController {
	if store == nil {
		store = cache.NopStore{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &DashboardController{
		client:   client,
		registry: registry,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Init fetches the execution log. Only the first call talks to the backend;
// later calls return the first result. On failure the last cached snapshot,
// if any, is shown instead and marked stale.
func (d *DashboardController) Init(ctx context.Context) error {
	d.once.Do(func() {
		d.initErr = d.fetch(ctx)
	})
	return d.initErr
}

func (d *DashboardController) fetch(ctx context.Context) error {
	records, err := d.client.ListMetrics(ctx, types.MetricsQuery{})
	if err != nil {
		d.logger.Errorf("Error loading metrics: %v", err)
		d.restore()
		return fmt.Errorf("failed to load metrics: %w", err)
	}

	d.mutex.Lock()
	d.records = records
	d.fetchedAt = d.now()
	d.stale = false
	d.mutex.Unlock()

	if err := d.store.SaveMetrics(records); err != nil {
		d.logger.Debugf("Could not cache metrics: %v", err)
	}
	return nil
}

func (d *DashboardController) restore() {
	snapshot, err := d.store.LoadMetrics()
	if err != nil {
		if !fnerrors.IsSnapshotNotFound(err) {
			d.logger.Debugf("Could not read cached metrics: %v", err)
		}
		return
	}

	d.mutex.Lock()
	d.records = snapshot.Records
	d.fetchedAt = snapshot.SavedAt
	d.stale = true
	d.mutex.Unlock()
}

// Metrics returns a copy of the metrics snapshot
func (d *DashboardController) Metrics() []types.ExecutionMetric {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	out := make([]types.ExecutionMetric, len(d.records))
	copy(out, d.records)
	return out
}

// Summary aggregates the metrics snapshot
func (d *DashboardController) Summary() metrics.Summary {
	return metrics.Aggregate(d.Metrics())
}

// Registry returns the registry client the dashboard shows
func (d *DashboardController) Registry() *RegistryClient {
	return d.registry
}

// View composes the current snapshot with the live catalog
func (d *DashboardController) View() DashboardView {
	records := d.Metrics()

	d.mutex.Lock()
	fetchedAt, stale := d.fetchedAt, d.stale
	d.mutex.Unlock()

	view := DashboardView{
		Summary:   metrics.Aggregate(records),
		Metrics:   records,
		FetchedAt: fetchedAt,
		Stale:     stale,
	}
	if d.registry != nil {
		view.Functions = d.registry.Functions()
	}
	return view
}
