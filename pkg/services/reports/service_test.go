package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/store/client"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListReports(ctx context.Context) ([]api.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.Report), args.Error(1)
}

func (m *mockSource) UpdateReportStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func setupCache(t *testing.T) reports.Store {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	cache, err := reports.NewStore(db)
	require.NoError(t, err)
	return cache
}

func TestNewService_NilSource(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)
}

func TestService_Snapshot(t *testing.T) {
	ctx := context.Background()
	source := new(mockSource)
	source.On("ListReports", ctx).Return([]api.Report{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, NeedDescription: "food", Status: "Received", Timestamp: "2025-03-01T10:15:00Z"},
		{ID: "r2", Location: "Harbor", PeopleCount: -3, Status: "Escalated", Timestamp: "yesterday"},
	}, nil)

	svc, err := NewService(source, nil)
	require.NoError(t, err)

	got, err := svc.Snapshot(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC), got[0].Timestamp)
	assert.Equal(t, domain.StatusReceived, got[0].Status)
	assert.False(t, got[1].HasTimestamp())
	assert.Equal(t, 0, got[1].PeopleCount)
	assert.Equal(t, domain.Status("Escalated"), got[1].Status)
	source.AssertExpectations(t)
}

func TestService_Snapshot_SourceError(t *testing.T) {
	ctx := context.Background()
	source := new(mockSource)
	source.On("ListReports", ctx).Return(nil, errors.New("connection refused"))

	svc, err := NewService(source, nil)
	require.NoError(t, err)

	_, err = svc.Snapshot(ctx)
	assert.ErrorContains(t, err, "connection refused")
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown status without calling the source", func(t *testing.T) {
		source := new(mockSource)
		svc, err := NewService(source, nil)
		require.NoError(t, err)

		err = svc.UpdateStatus(ctx, "r1", "Escalated")

		assert.ErrorContains(t, err, "unknown status")
		source.AssertNotCalled(t, "UpdateReportStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps missing reports to ErrNotFound", func(t *testing.T) {
		source := new(mockSource)
		source.On("UpdateReportStatus", ctx, "missing", "Actioned").Return(client.ErrNotFound)
		svc, err := NewService(source, nil)
		require.NoError(t, err)

		err = svc.UpdateStatus(ctx, "missing", domain.StatusActioned)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("mirrors the change into the cache", func(t *testing.T) {
		cache := setupCache(t)
		require.NoError(t, cache.Replace(ctx, []store.ReportRecord{
			{ID: "r1", Location: "Riverside", Status: "Received"},
		}))

		source := new(mockSource)
		source.On("UpdateReportStatus", ctx, "r1", "Acknowledged").Return(nil)
		svc, err := NewService(source, cache)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateStatus(ctx, "r1", domain.StatusAcknowledged))

		records, err := cache.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Acknowledged", records[0].Status)
		source.AssertExpectations(t)
	})

	t.Run("report missing from the cache is not an error", func(t *testing.T) {
		source := new(mockSource)
		source.On("UpdateReportStatus", ctx, "r9", "Actioned").Return(nil)
		svc, err := NewService(source, setupCache(t))
		require.NoError(t, err)

		assert.NoError(t, svc.UpdateStatus(ctx, "r9", domain.StatusActioned))
	})
}

func TestCacheSource(t *testing.T) {
	ctx := context.Background()
	cache := setupCache(t)
	require.NoError(t, cache.Replace(ctx, []store.ReportRecord{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, Status: "Received", Timestamp: "2025-03-01T10:15:00Z"},
	}))

	source, err := NewCacheSource(cache)
	require.NoError(t, err)

	got, err := source.ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Report{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, Status: "Received", Timestamp: "2025-03-01T10:15:00Z"},
	}, got)

	require.NoError(t, source.UpdateReportStatus(ctx, "r1", "Actioned"))
	assert.Error(t, source.UpdateReportStatus(ctx, "missing", "Actioned"))
}

func TestSnapshotSource(t *testing.T) {
	ctx := context.Background()
	cache := setupCache(t)
	require.NoError(t, cache.Replace(ctx, []store.ReportRecord{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, Status: "Received", Timestamp: "2025-03-01T10:15:00Z"},
	}))

	upstream := new(mockSource)
	upstream.On("UpdateReportStatus", mock.Anything, "r1", "Actioned").Return(nil)

	source, err := NewSnapshotSource(cache, upstream)
	require.NoError(t, err)
	svc, err := NewService(source, cache)
	require.NoError(t, err)

	// Given a snapshot, reads never reach upstream
	got, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusReceived, got[0].Status)
	upstream.AssertNotCalled(t, "ListReports", mock.Anything)

	// When the status changes, upstream is updated and the snapshot mirrors it
	require.NoError(t, svc.UpdateStatus(ctx, "r1", domain.StatusActioned))
	upstream.AssertExpectations(t)

	got, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActioned, got[0].Status)

	_, err = NewSnapshotSource(cache, nil)
	assert.Error(t, err)
}
