package syncstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
)

type Store interface {
	Get(ctx context.Context, source string) (*store.SyncState, error)
	Record(ctx context.Context, state store.SyncState) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

// Get returns nil when the source was never synced.
func (s *defaultStore) Get(ctx context.Context, source string) (*store.SyncState, error) {
	var (
		state   store.SyncState
		errText sql.NullString
	)
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT source, synced_at, reports_count, error
		FROM sync_state
		WHERE source = ?
	`, source).Scan(&state.Source, &state.SyncedAt, &state.ReportsCount, &errText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sync state: %w", err)
	}
	if errText.Valid {
		state.Error = &errText.String
	}
	return &state, nil
}

func (s *defaultStore) Record(ctx context.Context, state store.SyncState) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_state (source, synced_at, reports_count, error)
		VALUES (?, ?, ?, ?)
	`, state.Source, state.SyncedAt, state.ReportsCount, state.Error)
	if err != nil {
		return fmt.Errorf("record sync state: %w", err)
	}
	return nil
}
