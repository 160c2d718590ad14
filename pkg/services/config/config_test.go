package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

const profiles = `[DEFAULT]
host = relief.example.org
token = secret
requests_per_second = 2.5

[warehouse]
type = postgres
dsn = postgres://relief:pw@localhost:5432/relief
table = reports

[broken]
type = ftp
host = nowhere
`

func TestRegistry_GetProfiles(t *testing.T) {
	// Given
	registry, err := NewRegistry(writeFile(t, "reliefcfg", profiles))
	require.NoError(t, err)

	// When
	got, err := registry.GetProfiles(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []domain.ConfigProfile{
		{Name: "DEFAULT", Type: domain.SourceTypeAPI},
		{Name: "warehouse", Type: domain.SourceTypePostgres},
		{Name: "broken", Type: "ftp"},
	}, got)
}

func TestRegistry_GetConfig(t *testing.T) {
	registry, err := NewRegistry(writeFile(t, "reliefcfg", profiles))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("api profile is the default", func(t *testing.T) {
		cfg, err := registry.GetConfig(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceTypeAPI, cfg.Profile.Type)
		assert.Equal(t, "relief.example.org", cfg.Host)
		assert.Equal(t, "secret", cfg.Token)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	})

	t.Run("postgres profile", func(t *testing.T) {
		cfg, err := registry.GetConfig(ctx, "warehouse")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceTypePostgres, cfg.Profile.Type)
		assert.Equal(t, "postgres://relief:pw@localhost:5432/relief", cfg.DSN)
		assert.Equal(t, "reports", cfg.Table)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := registry.GetConfig(ctx, "missing")
		assert.ErrorContains(t, err, "profile missing not found")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := registry.GetConfig(ctx, "broken")
		assert.ErrorContains(t, err, "unsupported source type")
	})
}

func TestRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadSettings_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	// No indentation on top-level keys to keep the YAML valid
	path := writeFile(t, "settings.yaml", `timezone: "Europe/Lisbon"
default_range: "7d"
overview_range: "3d"
timeline_granularity: "day"
sync_schedule: "*/10 * * * *"
db_path: "/tmp/relief.db"
documents:
  backend: "s3"
  bucket: "relief-docs"
  prefix: "shared"
  region: "eu-west-1"
  max_size: 1024`)

	// When
	s, err := LoadSettings(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", s.Timezone)
	assert.Equal(t, "7d", s.DefaultRange)
	assert.Equal(t, "3d", s.OverviewRange)
	assert.Equal(t, "day", s.TimelineGranularity)
	assert.Equal(t, "*/10 * * * *", s.SyncSchedule)
	assert.Equal(t, "/tmp/relief.db", s.DbPath)
	assert.Equal(t, DocumentsSettings{
		Backend: DocumentsBackendS3,
		Bucket:  "relief-docs",
		Prefix:  "shared",
		Region:  "eu-west-1",
		MaxSize: 1024,
	}, s.Documents)

	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", loc.String())
}

func TestLoadSettings_AppliesDefaults(t *testing.T) {
	path := writeFile(t, "settings.yaml", `db_path: "cache.db"`)

	s, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "cache.db", s.DbPath)
	assert.Equal(t, "UTC", s.Timezone)
	assert.Equal(t, string(domain.TimeRangeAll), s.DefaultRange)
	assert.Equal(t, string(domain.TimeRange24h), s.OverviewRange)
	assert.Equal(t, DocumentsBackendAPI, s.Documents.Backend)
	assert.Equal(t, int64(DefaultMaxDocumentSize), s.Documents.MaxSize)
	assert.Equal(t, s, mustLoad(t, path))
}

func TestLoadSettings_EmptyPathUsesDefaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, "relief.db", s.DbPath)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"malformed yaml", "timezone: a: b", "failed to read settings file"},
		{"bad timezone", `timezone: "Mars/Olympus"`, "invalid timezone"},
		{"bad range", `default_range: "1y"`, "default_range"},
		{"bad granularity", `timeline_granularity: "week"`, "timeline_granularity"},
		{"s3 without bucket", "documents:\n  backend: s3", "documents.bucket is required"},
		{"unknown backend", "documents:\n  backend: ftp", "unsupported documents backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeFile(t, "settings.yaml", tt.content))
			assert.ErrorContains(t, err, tt.errText)
		})
	}
}

func mustLoad(t *testing.T, path string) *Settings {
	t.Helper()
	s, err := LoadSettings(path)
	require.NoError(t, err)
	return s
}
