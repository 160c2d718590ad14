package reports

import (
	"context"
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
)

// Source is anything that can hand out the full report collection and accept
// status changes: the backend API client, the SQL table or the local cache.
type Source interface {
	ListReports(ctx context.Context) ([]api.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status string) error
}

type cacheSource struct {
	store reports.Store
}

// NewCacheSource serves the last synced snapshot as a Source.
func NewCacheSource(store reports.Store) (Source, error) {
	if store == nil {
		return nil, fmt.Errorf("report store is nil")
	}
	return &cacheSource{store: store}, nil
}

func (s *cacheSource) ListReports(ctx context.Context) ([]api.Report, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreReportsToApi(records), nil
}

func (s *cacheSource) UpdateReportStatus(ctx context.Context, id string, status string) error {
	return s.store.UpdateStatus(ctx, id, status)
}

type snapshotSource struct {
	Source
	upstream Source
}

// NewSnapshotSource reads from the local snapshot and sends status changes to
// upstream, so an update stays authoritative while reads avoid the network.
func NewSnapshotSource(store reports.Store, upstream Source) (Source, error) {
	cache, err := NewCacheSource(store)
	if err != nil {
		return nil, err
	}
	if upstream == nil {
		return nil, fmt.Errorf("upstream source is nil")
	}
	return &snapshotSource{Source: cache, upstream: upstream}, nil
}

func (s *snapshotSource) UpdateReportStatus(ctx context.Context, id string, status string) error {
	return s.upstream.UpdateReportStatus(ctx, id, status)
}
