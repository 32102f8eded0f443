// Package cache keeps the last successfully fetched catalog and metrics log
// so a later run can show stale data while the backend is unreachable.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ignitionstack/fnctl/internal/repository"
	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/types"
)

const (
	catalogKey = "snapshot:catalog"
	metricsKey = "snapshot:metrics"
)

// Store persists catalog and metrics snapshots
type Store interface {
	SaveCatalog(functions []types.Function) error
	LoadCatalog() (*CatalogSnapshot, error)
	SaveMetrics(records []types.ExecutionMetric) error
	LoadMetrics() (*MetricsSnapshot, error)
}

// CatalogSnapshot is a stored copy of the function catalog
type CatalogSnapshot struct {
	Functions []types.Function `json:"functions"`
	SavedAt   time.Time        `json:"saved_at"`
}

// MetricsSnapshot is a stored copy of the execution log
type MetricsSnapshot struct {
	Records []types.ExecutionMetric `json:"records"`
	SavedAt time.Time               `json:"saved_at"`
}

type badgerStore struct {
	dbRepo repository.DBRepository
	now    func() time.Time
}

// NewStore creates a snapshot store on top of the given repository
func NewStore(dbRepo repository.DBRepository) Store {
	return &badgerStore{dbRepo: dbRepo, now: time.Now}
}

func (s *badgerStore) SaveCatalog(functions []types.Function) error {
	return s.put(catalogKey, CatalogSnapshot{Functions: functions, SavedAt: s.now()})
}

func (s *badgerStore) LoadCatalog() (*CatalogSnapshot, error) {
	var snapshot CatalogSnapshot
	if err := s.get(catalogKey, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *badgerStore) SaveMetrics(records []types.ExecutionMetric) error {
	return s.put(metricsKey, MetricsSnapshot{Records: records, SavedAt: s.now()})
}

func (s *badgerStore) LoadMetrics() (*MetricsSnapshot, error) {
	var snapshot MetricsSnapshot
	if err := s.get(metricsKey, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *badgerStore) put(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return s.dbRepo.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *badgerStore) get(key string, out interface{}) error {
	return s.dbRepo.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fnerrors.ErrSnapshotNotFound
			}
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

// NopStore discards writes and never has a snapshot
type NopStore struct{}

func (NopStore) SaveCatalog([]types.Function) error { return nil }

func (NopStore) LoadCatalog() (*CatalogSnapshot, error) {
	return nil, fnerrors.ErrSnapshotNotFound
}

func (NopStore) SaveMetrics([]types.ExecutionMetric) error { return nil }

func (NopStore) LoadMetrics() (*MetricsSnapshot, error) {
	return nil, fnerrors.ErrSnapshotNotFound
}
