package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const DefaultTable = "reports"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ReportSource reads reports straight from the backend's Postgres database.
type ReportSource struct {
	db    *sql.DB
	table string
}

// Open connects through the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewReportSource(db *sql.DB, table string) (*ReportSource, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &ReportSource{db: db, table: table}, nil
}

func (s *ReportSource) ListReports(ctx context.Context) ([]api.Report, error) {
	logger := zerolog.Ctx(ctx)
	query := fmt.Sprintf(`
		SELECT
			id,
			location,
			people_count,
			need_description,
			status,
			is_urgent_medical,
			"timestamp",
			caller_number,
			call_sid
		FROM %s
		ORDER BY "timestamp" DESC NULLS LAST
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close reports query rows")
		}
	}(rows)

	reports := make([]api.Report, 0)
	for rows.Next() {
		var (
			id                                  string
			location, need, status, caller, sid sql.NullString
			people                              sql.NullInt64
			urgent                              sql.NullBool
			ts                                  sql.NullTime
		)
		if err := rows.Scan(&id, &location, &people, &need, &status, &urgent, &ts, &caller, &sid); err != nil {
			return nil, err
		}

		report := api.Report{
			ID:              id,
			Location:        location.String,
			PeopleCount:     int(people.Int64),
			NeedDescription: need.String,
			Status:          status.String,
			IsUrgentMedical: urgent.Bool,
			CallerNumber:    caller.String,
			CallSID:         sid.String,
		}
		if ts.Valid {
			report.Timestamp = adapters.FormatTimestamp(ts.Time)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports query failed: %w", err)
	}

	return reports, nil
}

func (s *ReportSource) UpdateReportStatus(ctx context.Context, id string, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE id = $2`, s.table)
	res, err := s.db.ExecContext(ctx, query, status, id)
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
