package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/store/client"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("report not found")

type Service interface {
	Snapshot(ctx context.Context) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

type DefaultService struct {
	source Source
	cache  reports.Store
}

// NewService reads snapshots from source. cache may be nil; when set, status
// changes accepted by the source are mirrored into it.
func NewService(source Source, cache reports.Store) (*DefaultService, error) {
	if source == nil {
		return nil, fmt.Errorf("report source is nil")
	}
	return &DefaultService{source: source, cache: cache}, nil
}

func (s *DefaultService) Snapshot(ctx context.Context) ([]domain.Report, error) {
	records, err := s.source.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	return adapters.MapApiReportsToDomain(ctx, records), nil
}

func (s *DefaultService) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if id == "" {
		return fmt.Errorf("report id is required")
	}
	if !status.Valid() {
		return fmt.Errorf("unknown status %q, expected one of %v", status, domain.Statuses)
	}

	if err := s.source.UpdateReportStatus(ctx, id, string(status)); err != nil {
		if errors.Is(err, client.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to update report %s: %w", id, err)
	}

	if s.cache == nil {
		return nil
	}
	// The cache may predate the report; the next sync picks it up.
	if err := s.cache.UpdateStatus(ctx, id, string(status)); err != nil && !errors.Is(err, sql.ErrNoRows) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("report_id", id).Msg("failed to update cached report status")
	}
	return nil
}
