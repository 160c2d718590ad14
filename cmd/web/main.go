package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/relief-atlas/pkg/server"
	"github.com/de-tools/relief-atlas/pkg/services/config"
	"github.com/de-tools/relief-atlas/pkg/services/dashboard"
	"github.com/de-tools/relief-atlas/pkg/services/documents"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/de-tools/relief-atlas/pkg/services/sources"
	"github.com/de-tools/relief-atlas/pkg/services/workflow"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb"
	reportstore "github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/syncstate"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	settingsPath string
	profile      string
	noSync       bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Relief Atlas",
		RunE:  runServer,
	}

	defaultPath := ".reliefcfg"
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath = filepath.Join(home, ".reliefcfg")
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultPath,
		"Path to the source profiles file (default is $HOME/.reliefcfg)")
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to the dashboard settings YAML file")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", config.DefaultProfile,
		"Source profile to serve reports from")
	rootCmd.Flags().BoolVar(&noSync, "no-sync", false,
		"Serve straight from the source without a local snapshot")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}
	explorer := sources.NewExplorer(registry)
	defer explorer.Close()

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	logger.Info().Msgf("Found the following profiles:")
	profiles, _ := registry.GetProfiles(ctx)
	for _, p := range profiles {
		logger.Info().Msgf("Name: `%s`, Type: `%s`", p.Name, p.Type)
	}

	source, err := explorer.GetSource(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to create report source: %w", err)
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := server.Dependencies{
		MaxDocumentSize: settings.Documents.MaxSize,
		Registry:        metricsRegistry,
		Logger:          logger,
	}

	if noSync {
		deps.Reports, err = reports.NewService(source, nil)
		if err != nil {
			return err
		}
	} else {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.DbPath})
		if err != nil {
			return fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		defer db.Close()

		reportStore, err := reportstore.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		stateStore, err := syncstate.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create sync state store: %w", err)
		}
		snapshot, err := reports.NewSnapshotSource(reportStore, source)
		if err != nil {
			return err
		}
		if deps.Reports, err = reports.NewService(snapshot, reportStore); err != nil {
			return err
		}

		syncMetrics, err := workflow.NewMetrics(metricsRegistry)
		if err != nil {
			return fmt.Errorf("failed to register sync metrics: %w", err)
		}
		runner := workflow.NewRunner(profile, source, db, reportStore, stateStore, syncMetrics)
		workflowCtrl, err := workflow.NewController(runner, settings.SyncSchedule)
		if err != nil {
			return fmt.Errorf("failed to create sync controller: %w", err)
		}
		if _, err := workflowCtrl.SyncNow(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial report sync failed, serving the last snapshot")
		}
		if err := workflowCtrl.Start(ctx); err != nil {
			return fmt.Errorf("failed to start sync controller: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = workflowCtrl.Stop(stopCtx)
		}()
		deps.Syncer = workflowCtrl
	}

	opts, err := dashboard.OptionsFromSettings(settings)
	if err != nil {
		return err
	}
	if deps.Dashboard, err = dashboard.NewService(deps.Reports, opts); err != nil {
		return err
	}

	store, err := explorer.GetDocumentStore(ctx, profile, settings.Documents)
	if err != nil {
		logger.Warn().Err(err).Msg("document endpoints disabled")
	} else {
		manager, err := documents.NewManager(store, settings.Documents.MaxSize)
		if err != nil {
			return err
		}
		deps.Documents = manager
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	addr := net.JoinHostPort(host, port)
	logger.Info().Msgf("starting server on %s", addr)

	return server.NewWebAPI(server.Config{
		Addr:         addr,
		Dependencies: deps,
	}).Start()
}
