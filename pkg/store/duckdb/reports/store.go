package reports

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
)

// Store keeps the last synced report snapshot in DuckDB so dashboards can be
// rendered without reaching the backend.
type Store interface {
	Replace(ctx context.Context, records []store.ReportRecord) error
	List(ctx context.Context) ([]store.ReportRecord, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Count(ctx context.Context) (int64, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{
		db: db,
	}, nil
}

// Replace swaps the whole snapshot. Run it inside duckdb.InTransaction to make
// the swap atomic.
func (s *reportStore) Replace(ctx context.Context, records []store.ReportRecord) error {
	conn := duckdb.Conn(ctx, s.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM reports`); err != nil {
		return fmt.Errorf("clear reports: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	stmt, err := conn.PrepareContext(ctx, `
		INSERT INTO reports (
			id, location, people_count, need_description, status,
			is_urgent_medical, timestamp, caller_number, call_sid
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			record.ID,
			record.Location,
			record.PeopleCount,
			record.NeedDescription,
			record.Status,
			record.IsUrgentMedical,
			record.Timestamp,
			record.CallerNumber,
			record.CallSID,
		)
		if err != nil {
			return fmt.Errorf("insert report %s: %w", record.ID, err)
		}
	}

	return nil
}

// List returns reports in ingestion order.
func (s *reportStore) List(ctx context.Context) ([]store.ReportRecord, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, location, people_count, need_description, status,
			is_urgent_medical, timestamp, caller_number, call_sid
		FROM reports
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()
	return scanReportRows(rows)
}

func (s *reportStore) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *reportStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return total, nil
}

func scanReportRows(rows *sql.Rows) ([]store.ReportRecord, error) {
	records := make([]store.ReportRecord, 0)
	for rows.Next() {
		var (
			id                                                 string
			location, need, status, timestamp, caller, callSID sql.NullString
			people                                             sql.NullInt64
			urgent                                             sql.NullBool
		)
		if err := rows.Scan(&id, &location, &people, &need, &status, &urgent, &timestamp, &caller, &callSID); err != nil {
			return nil, err
		}
		records = append(records, store.ReportRecord{
			ID:              id,
			Location:        location.String,
			PeopleCount:     people.Int64,
			NeedDescription: need.String,
			Status:          status.String,
			IsUrgentMedical: urgent.Bool,
			Timestamp:       timestamp.String,
			CallerNumber:    caller.String,
			CallSID:         callSID.String,
		})
	}
	return records, rows.Err()
}
