package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/config"
	"github.com/de-tools/relief-atlas/pkg/services/dashboard"
	"github.com/de-tools/relief-atlas/pkg/services/documents"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/de-tools/relief-atlas/pkg/services/sources"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
	reportstore "github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
)

const (
	FormatText  = "text"
	FormatTable = "table"

	commandTimeout = 60 * time.Second
)

var errNoProfiles = errors.New("no source profiles loaded, pass --config")

// SummaryReporter renders a dashboard summary.
type SummaryReporter interface {
	Handle(summary *domain.Summary) error
}

// TableReporter renders free-form rows.
type TableReporter interface {
	SummaryReporter
	HandleTable(header []string, rows [][]string, noun string) error
}

// Env carries the shared flags and the services built from them.
type Env struct {
	Explorer sources.Explorer
	Settings *config.Settings
	Text     SummaryReporter
	Table    TableReporter

	Profile string
	Offline bool
	Format  string
}

func (e *Env) reporter() (SummaryReporter, error) {
	switch e.Format {
	case FormatText, "":
		return e.Text, nil
	case FormatTable:
		return e.Table, nil
	}
	return nil, fmt.Errorf("unknown format %q, expected %s or %s", e.Format, FormatText, FormatTable)
}

func (e *Env) profile() string {
	if e.Profile == "" {
		return config.DefaultProfile
	}
	return e.Profile
}

func (e *Env) openSnapshot() (*sql.DB, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: e.Settings.DbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", e.Settings.DbPath, err)
	}
	return db, nil
}

func (e *Env) source(ctx context.Context) (reports.Source, error) {
	if e.Explorer == nil {
		return nil, errNoProfiles
	}
	return e.Explorer.GetSource(ctx, e.profile())
}

// Reports builds the report service for the selected profile, or for the local
// snapshot in offline mode. The returned func releases what was opened.
func (e *Env) Reports(ctx context.Context) (reports.Service, func(), error) {
	if !e.Offline {
		source, err := e.source(ctx)
		if err != nil {
			return nil, nil, err
		}
		svc, err := reports.NewService(source, nil)
		if err != nil {
			return nil, nil, err
		}
		return svc, func() {}, nil
	}

	db, err := e.openSnapshot()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }

	store, err := reportstore.NewStore(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	source, err := reports.NewCacheSource(store)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	svc, err := reports.NewService(source, nil)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return svc, closeDB, nil
}

func (e *Env) Dashboard(ctx context.Context) (*dashboard.Service, func(), error) {
	opts, err := dashboard.OptionsFromSettings(e.Settings)
	if err != nil {
		return nil, nil, err
	}
	svc, release, err := e.Reports(ctx)
	if err != nil {
		return nil, nil, err
	}
	dash, err := dashboard.NewService(svc, opts)
	if err != nil {
		release()
		return nil, nil, err
	}
	return dash, release, nil
}

func (e *Env) Documents(ctx context.Context) (documents.Manager, error) {
	if e.Explorer == nil {
		return nil, errNoProfiles
	}
	store, err := e.Explorer.GetDocumentStore(ctx, e.profile(), e.Settings.Documents)
	if err != nil {
		return nil, err
	}
	return documents.NewManager(store, e.Settings.Documents.MaxSize)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, commandTimeout)
}
