package workflow

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
	reportstore "github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/syncstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
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
	return m.Called(ctx, id, status).Error(0)
}

type fixture struct {
	db          *sql.DB
	reportStore reportstore.Store
	stateStore  syncstate.Store
	metrics     *Metrics
	source      *mockSource
	runner      *Runner
}

var syncTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	reportStore, err := reportstore.NewStore(db)
	require.NoError(t, err)
	stateStore, err := syncstate.NewStore(db)
	require.NoError(t, err)
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	source := new(mockSource)
	runner := NewRunner("default", source, db, reportStore, stateStore, metrics)
	runner.now = func() time.Time { return syncTime }

	return &fixture{
		db:          db,
		reportStore: reportStore,
		stateStore:  stateStore,
		metrics:     metrics,
		source:      source,
		runner:      runner,
	}
}

func TestRunner_Run_ReplacesSnapshot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.source.On("ListReports", mock.Anything).Return([]api.Report{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, Status: "Received", Timestamp: "2025-03-01T10:15:00Z"},
		{ID: "r2", Location: "Harbor", PeopleCount: 2, Status: "Actioned", Timestamp: "2025-03-01T11:15:00Z"},
	}, nil).Once()
	f.source.On("ListReports", mock.Anything).Return([]api.Report{
		{ID: "r3", Location: "Hilltop", PeopleCount: 1, Status: "Received"},
	}, nil).Once()

	state, err := f.runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.ReportsCount)
	assert.Nil(t, state.Error)

	state, err = f.runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.ReportsCount)

	records, err := f.reportStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r3", records[0].ID)

	stored, err := f.runner.State(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, syncTime.Equal(stored.SyncedAt))
	assert.Equal(t, int64(1), stored.ReportsCount)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.runs.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.reports))
	assert.Equal(t, float64(syncTime.Unix()), testutil.ToFloat64(f.metrics.lastSuccess))
	f.source.AssertExpectations(t)
}

func TestRunner_Run_FailureKeepsSnapshot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.source.On("ListReports", mock.Anything).Return([]api.Report{
		{ID: "r1", Location: "Riverside", PeopleCount: 5, Status: "Received"},
	}, nil).Once()
	f.source.On("ListReports", mock.Anything).Return(nil, errors.New("backend unavailable")).Once()

	_, err := f.runner.Run(ctx)
	require.NoError(t, err)

	_, err = f.runner.Run(ctx)
	assert.ErrorContains(t, err, "backend unavailable")

	count, err := f.reportStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	state, err := f.runner.State(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, int64(1), state.ReportsCount)
	require.NotNil(t, state.Error)
	assert.Equal(t, "backend unavailable", *state.Error)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.runs.WithLabelValues("failure")))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNewController(t *testing.T) {
	f := setupFixture(t)

	_, err := NewController(nil, "@every 5m")
	assert.Error(t, err)

	_, err = NewController(f.runner, "every five minutes")
	assert.ErrorContains(t, err, "error parsing sync schedule")

	ctrl, err := NewController(f.runner, "*/10 * * * *")
	require.NoError(t, err)
	assert.NotNil(t, ctrl)
}

func TestController_StartStop(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	ctrl, err := NewController(f.runner, "@every 1h")
	require.NoError(t, err)

	assert.Error(t, ctrl.Stop(ctx))
	require.NoError(t, ctrl.Start(ctx))
	assert.Error(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.Stop(ctx))
}

func TestController_SyncNow(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.source.On("ListReports", mock.Anything).Return([]api.Report{{ID: "r1"}}, nil)

	ctrl, err := NewController(f.runner, "@every 1h")
	require.NoError(t, err)

	state, err := ctrl.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", state.Source)

	stored, err := ctrl.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.ReportsCount, stored.ReportsCount)
}
