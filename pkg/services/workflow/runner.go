package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
	reportstore "github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/syncstate"
	"github.com/rs/zerolog"
)

// Runner copies the full report collection of one source into the local
// snapshot. Runs are serialized.
type Runner struct {
	name        string
	source      reports.Source
	db          *sql.DB
	reportStore reportstore.Store
	stateStore  syncstate.Store
	metrics     *Metrics

	mu  sync.Mutex
	now func() time.Time
}

func NewRunner(
	name string,
	source reports.Source,
	db *sql.DB,
	reportStore reportstore.Store,
	stateStore syncstate.Store,
	metrics *Metrics,
) *Runner {
	return &Runner{
		name:        name,
		source:      source,
		db:          db,
		reportStore: reportStore,
		stateStore:  stateStore,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (r *Runner) Name() string {
	return r.name
}

// State returns the last recorded sync state, nil if the source never synced.
func (r *Runner) State(ctx context.Context) (*store.SyncState, error) {
	return r.stateStore.Get(ctx, r.name)
}

func (r *Runner) Run(ctx context.Context) (*store.SyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := zerolog.Ctx(ctx).With().Str("source", r.name).Logger()
	started := r.now()

	records, err := r.source.ListReports(ctx)
	if err != nil {
		r.recordFailure(ctx, err)
		return nil, fmt.Errorf("failed to fetch reports from %s: %w", r.name, err)
	}

	state := store.SyncState{
		Source:       r.name,
		SyncedAt:     r.now().UTC(),
		ReportsCount: int64(len(records)),
	}
	err = duckdb.InTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.reportStore.Replace(ctx, adapters.MapApiReportsToStore(records)); err != nil {
			return err
		}
		return r.stateStore.Record(ctx, state)
	})
	if err != nil {
		r.recordFailure(ctx, err)
		return nil, fmt.Errorf("failed to store snapshot of %s: %w", r.name, err)
	}

	r.metrics.observeSuccess(state, r.now().Sub(started))
	logger.Info().
		Int64("reports", state.ReportsCount).
		Dur("duration", r.now().Sub(started)).
		Msg("report snapshot synced")
	return &state, nil
}

// recordFailure keeps the last good snapshot time and count, adding the error.
func (r *Runner) recordFailure(ctx context.Context, cause error) {
	logger := zerolog.Ctx(ctx)
	r.metrics.observeFailure()

	state := store.SyncState{Source: r.name, SyncedAt: r.now().UTC()}
	prev, err := r.stateStore.Get(ctx, r.name)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read sync state")
	} else if prev != nil {
		state = *prev
	}
	msg := cause.Error()
	state.Error = &msg

	if err := r.stateStore.Record(ctx, state); err != nil {
		logger.Error().Err(err).Msg("failed to record sync failure")
	}
	logger.Error().Err(cause).Str("source", r.name).Msg("report sync failed")
}
