package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/config"
	"github.com/de-tools/relief-atlas/pkg/services/documents"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/de-tools/relief-atlas/pkg/store/client"
	s3store "github.com/de-tools/relief-atlas/pkg/store/s3"
	sqlstore "github.com/de-tools/relief-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

// Explorer turns configuration profiles into report sources and document
// stores.
type Explorer interface {
	ListProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
	GetSource(ctx context.Context, profile string) (reports.Source, error)
	GetDocumentStore(ctx context.Context, profile string, settings config.DocumentsSettings) (documents.Store, error)
	Close() error
}

type sourceExplorer struct {
	registry config.Registry
	loadAWS  func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error)

	mu      sync.Mutex
	clients map[string]*client.Client
	dbs     []*sql.DB
}

func NewExplorer(registry config.Registry) Explorer {
	return &sourceExplorer{
		registry: registry,
		loadAWS:  awsconfig.LoadDefaultConfig,
		clients:  make(map[string]*client.Client),
	}
}

func (e *sourceExplorer) ListProfiles(ctx context.Context) ([]domain.ConfigProfile, error) {
	return e.registry.GetProfiles(ctx)
}

func (e *sourceExplorer) GetSource(ctx context.Context, profile string) (reports.Source, error) {
	cfg, err := e.registry.GetConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	switch cfg.Profile.Type {
	case domain.SourceTypeAPI:
		return e.apiClient(cfg)
	case domain.SourceTypePostgres:
		db, err := sqlstore.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		source, err := sqlstore.NewReportSource(db, cfg.Table)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		e.mu.Lock()
		e.dbs = append(e.dbs, db)
		e.mu.Unlock()

		zerolog.Ctx(ctx).Debug().
			Str("profile", cfg.Profile.Name).
			Str("table", cfg.Table).
			Msg("using postgres report source")
		return source, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q for profile %s", cfg.Profile.Type, cfg.Profile.Name)
	}
}

// GetDocumentStore picks the backend named in settings. The api backend reuses
// the profile's API client, so it requires an api profile.
func (e *sourceExplorer) GetDocumentStore(
	ctx context.Context,
	profile string,
	settings config.DocumentsSettings,
) (documents.Store, error) {
	switch settings.Backend {
	case config.DocumentsBackendS3:
		if settings.Bucket == "" {
			return nil, fmt.Errorf("documents bucket is required for the s3 backend")
		}
		var opts []func(*awsconfig.LoadOptions) error
		if settings.Region != "" {
			opts = append(opts, awsconfig.WithRegion(settings.Region))
		}
		awsCfg, err := e.loadAWS(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		return s3store.NewFromConfig(awsCfg, settings.Bucket, settings.Prefix)
	case config.DocumentsBackendAPI, "":
		cfg, err := e.registry.GetConfig(ctx, profile)
		if err != nil {
			return nil, err
		}
		if cfg.Profile.Type != domain.SourceTypeAPI {
			return nil, fmt.Errorf("profile %s has no document API, configure the s3 documents backend", cfg.Profile.Name)
		}
		return e.apiClient(cfg)
	default:
		return nil, fmt.Errorf("unknown documents backend %q", settings.Backend)
	}
}

func (e *sourceExplorer) apiClient(cfg *config.SourceConfig) (*client.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.clients[cfg.Profile.Name]; ok {
		return c, nil
	}
	c, err := client.NewClient(client.Config{
		Host:              cfg.Host,
		Token:             cfg.Token,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.Name, err)
	}
	e.clients[cfg.Profile.Name] = c
	return c, nil
}

// Close releases database connections opened for postgres profiles.
func (e *sourceExplorer) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, db := range e.dbs {
		errs = append(errs, db.Close())
	}
	e.dbs = nil
	return errors.Join(errs...)
}
