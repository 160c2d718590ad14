package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dashboardhandlers "github.com/de-tools/relief-atlas/pkg/handlers/dashboard"
	documenthandlers "github.com/de-tools/relief-atlas/pkg/handlers/documents"
	reporthandlers "github.com/de-tools/relief-atlas/pkg/handlers/reports"
	reliefmiddleware "github.com/de-tools/relief-atlas/pkg/server/middleware"
	"github.com/de-tools/relief-atlas/pkg/services/documents"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Dashboard dashboardhandlers.Service
	Reports   reports.Service
	Syncer    reporthandlers.Syncer
	Documents documents.Manager
	// MaxDocumentSize caps upload bodies.
	MaxDocumentSize int64
	// Registry backs /metrics and request metrics; nil disables both.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	logger := deps.Logger

	var requestMetrics *reliefmiddleware.RequestMetrics
	if deps.Registry != nil {
		m, err := reliefmiddleware.NewRequestMetrics(deps.Registry)
		if err != nil {
			logger.Warn().Err(err).Msg("request metrics disabled")
		} else {
			requestMetrics = m
		}
	}

	router := chi.NewRouter()
	router.Use(reliefmiddleware.Logger(&logger))
	router.Use(reliefmiddleware.Metrics(requestMetrics))
	router.Use(middleware.Recoverer)

	dashboardHandler := dashboardhandlers.NewHandler(deps.Dashboard)
	reportHandler := reporthandlers.NewHandler(deps.Reports, deps.Syncer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/overview", dashboardHandler.GetOverview)
		r.Get("/analytics", dashboardHandler.GetAnalytics)
		r.Get("/requests", dashboardHandler.ListRequests)
		r.Get("/timeline", dashboardHandler.GetTimeline)

		r.Put("/reports/{id}/status", reportHandler.UpdateStatus)
		r.Get("/sync", reportHandler.GetSyncState)
		r.Post("/sync", reportHandler.TriggerSync)

		if deps.Documents != nil {
			documentHandler := documenthandlers.NewHandler(deps.Documents, deps.MaxDocumentSize)
			r.Get("/documents", documentHandler.ListDocuments)
			r.Post("/documents", documentHandler.UploadDocument)
			r.Delete("/documents/{id}", documentHandler.DeleteDocument)
		}
	})

	if deps.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return router
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(config),
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
