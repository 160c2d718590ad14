package config

import (
	"fmt"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const (
	DocumentsBackendAPI = "api"
	DocumentsBackendS3  = "s3"

	DefaultMaxDocumentSize = 10 << 20
)

type DocumentsSettings struct {
	Backend string `mapstructure:"backend"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	MaxSize int64  `mapstructure:"max_size"`
}

type Settings struct {
	Timezone            string            `mapstructure:"timezone"`
	DefaultRange        string            `mapstructure:"default_range"`
	OverviewRange       string            `mapstructure:"overview_range"`
	TimelineGranularity string            `mapstructure:"timeline_granularity"`
	SyncSchedule        string            `mapstructure:"sync_schedule"`
	DbPath              string            `mapstructure:"db_path"`
	Documents           DocumentsSettings `mapstructure:"documents"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("timezone", "UTC")
	v.SetDefault("default_range", string(domain.TimeRangeAll))
	v.SetDefault("overview_range", string(domain.TimeRange24h))
	v.SetDefault("timeline_granularity", string(domain.GranularityHour))
	v.SetDefault("sync_schedule", "@every 5m")
	v.SetDefault("db_path", "relief.db")
	v.SetDefault("documents.backend", DocumentsBackendAPI)
	v.SetDefault("documents.max_size", DefaultMaxDocumentSize)
	return v
}

// DefaultSettings returns the settings used when no settings file is given.
func DefaultSettings() *Settings {
	var s Settings
	// Unmarshalling defaults only cannot fail.
	_ = newViper().Unmarshal(&s)
	return &s
}

// LoadSettings reads dashboard settings from a YAML file. An empty path yields
// the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if _, err := s.Location(); err != nil {
		return err
	}
	if _, err := domain.ParseTimeRange(s.DefaultRange, domain.TimeRangeAll); err != nil {
		return fmt.Errorf("default_range: %w", err)
	}
	if _, err := domain.ParseTimeRange(s.OverviewRange, domain.TimeRange24h); err != nil {
		return fmt.Errorf("overview_range: %w", err)
	}
	if _, err := domain.ParseGranularity(s.TimelineGranularity); err != nil {
		return fmt.Errorf("timeline_granularity: %w", err)
	}
	switch s.Documents.Backend {
	case DocumentsBackendAPI:
	case DocumentsBackendS3:
		if s.Documents.Bucket == "" {
			return fmt.Errorf("documents.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported documents backend %q", s.Documents.Backend)
	}
	if s.Documents.MaxSize <= 0 {
		return fmt.Errorf("documents.max_size must be positive")
	}
	return nil
}

func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
