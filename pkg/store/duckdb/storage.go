package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SyncState = `
	CREATE TABLE IF NOT EXISTS sync_state (
		source VARCHAR NOT NULL PRIMARY KEY,
		synced_at TIMESTAMP NOT NULL,
		reports_count BIGINT NOT NULL DEFAULT 0,
		error VARCHAR NULL
	);
`
const ReportsTableSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id VARCHAR NOT NULL PRIMARY KEY,
		location VARCHAR,
		people_count BIGINT,
		need_description VARCHAR,
		status VARCHAR,
		is_urgent_medical BOOLEAN,
		timestamp VARCHAR,
		caller_number VARCHAR,
		call_sid VARCHAR,
		ingested_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

var bootQueries = []string{
	SyncState,
	ReportsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
