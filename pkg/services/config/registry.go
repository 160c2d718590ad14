package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultProfile = "DEFAULT"

// SourceConfig describes where a profile reads its reports from.
type SourceConfig struct {
	Profile           domain.ConfigProfile
	Host              string
	Token             string
	DSN               string
	Table             string
	RequestsPerSecond float64
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ConfigProfile, error)
	GetConfig(ctx context.Context, profile string) (*SourceConfig, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.ConfigProfile, error) {
	var profiles []domain.ConfigProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, domain.ConfigProfile{
			Name: section.Name(),
			Type: sourceType(section),
		})
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*SourceConfig, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	sc := &SourceConfig{
		Profile: domain.ConfigProfile{Name: profile, Type: sourceType(section)},
		Host:    section.Key("host").String(),
		Token:   section.Key("token").String(),
		DSN:     section.Key("dsn").String(),
		Table:   section.Key("table").String(),
	}
	if section.HasKey("requests_per_second") {
		rps, err := section.Key("requests_per_second").Float64()
		if err != nil {
			return nil, fmt.Errorf("profile %s: invalid requests_per_second: %w", profile, err)
		}
		sc.RequestsPerSecond = rps
	}

	switch sc.Profile.Type {
	case domain.SourceTypeAPI:
		if sc.Host == "" {
			return nil, fmt.Errorf("profile %s: host is required", profile)
		}
	case domain.SourceTypePostgres:
		if sc.DSN == "" {
			return nil, fmt.Errorf("profile %s: dsn is required", profile)
		}
	default:
		return nil, fmt.Errorf("profile %s: unsupported source type %q", profile, sc.Profile.Type)
	}
	return sc, nil
}

func sourceType(section *ini.Section) domain.SourceType {
	value := strings.ToLower(strings.TrimSpace(section.Key("type").String()))
	if value == "" {
		return domain.SourceTypeAPI
	}
	return domain.SourceType(value)
}
