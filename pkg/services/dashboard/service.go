package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/analytics"
	"github.com/de-tools/relief-atlas/pkg/services/config"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
)

const (
	priorityLocations     = 3
	recommendedCategories = 3
	medicalAlertPercent   = 30
)

const (
	InsightMedical   = "High percentage of medical emergencies detected. Consider deploying additional medical teams."
	InsightLocations = "Focus resources on the top 3 locations which account for the majority of people in need."
)

type Options struct {
	Location      *time.Location
	DefaultRange  domain.TimeRange
	OverviewRange domain.TimeRange
	Granularity   domain.Granularity
}

// OptionsFromSettings resolves the dashboard defaults of a settings file.
func OptionsFromSettings(settings *config.Settings) (Options, error) {
	loc, err := settings.Location()
	if err != nil {
		return Options{}, err
	}
	defaultRange, err := domain.ParseTimeRange(settings.DefaultRange, domain.TimeRangeAll)
	if err != nil {
		return Options{}, fmt.Errorf("default_range: %w", err)
	}
	overviewRange, err := domain.ParseTimeRange(settings.OverviewRange, domain.TimeRange24h)
	if err != nil {
		return Options{}, fmt.Errorf("overview_range: %w", err)
	}
	granularity, err := domain.ParseGranularity(settings.TimelineGranularity)
	if err != nil {
		return Options{}, fmt.Errorf("timeline_granularity: %w", err)
	}
	return Options{
		Location:      loc,
		DefaultRange:  defaultRange,
		OverviewRange: overviewRange,
		Granularity:   granularity,
	}, nil
}

// Service renders dashboard pages from a fresh report snapshot on every call.
type Service struct {
	reports reports.Service
	opts    Options
	now     func() time.Time
}

func NewService(reports reports.Service, opts Options) (*Service, error) {
	if reports == nil {
		return nil, fmt.Errorf("report service is nil")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultRange == "" {
		opts.DefaultRange = domain.TimeRangeAll
	}
	if opts.OverviewRange == "" {
		opts.OverviewRange = domain.TimeRange24h
	}
	if opts.Granularity == "" {
		opts.Granularity = domain.GranularityHour
	}
	return &Service{reports: reports, opts: opts, now: time.Now}, nil
}

// snapshot fetches reports and narrows them to tr, falling back to def.
func (s *Service) snapshot(ctx context.Context, tr, def domain.TimeRange) ([]domain.Report, domain.TimePeriod, error) {
	if tr == "" {
		tr = def
	}
	now := s.now()

	all, err := s.reports.Snapshot(ctx)
	if err != nil {
		return nil, domain.TimePeriod{}, err
	}

	period := domain.TimePeriod{Range: tr, End: now}
	if days, ok := tr.Days(); ok {
		start := now.Add(-time.Duration(days) * 24 * time.Hour)
		period.Start = &start
	}
	return analytics.ApplyTimeRange(all, tr, now), period, nil
}

func (s *Service) Overview(ctx context.Context, tr domain.TimeRange) (*api.Overview, error) {
	filtered, period, err := s.snapshot(ctx, tr, s.opts.OverviewRange)
	if err != nil {
		return nil, err
	}

	metrics := analytics.ComputeMetrics(filtered)
	return &api.Overview{
		Period:             adapters.MapTimePeriodDomainToApi(period),
		Metrics:            adapters.MapMetricsDomainToApi(metrics),
		CompletionRate:     percent(metrics.StatusCounts[domain.StatusActioned], metrics.TotalRequests),
		Timeline:           adapters.MapTimeBucketsToApi(analytics.GroupByTime(filtered, domain.GranularityHour, s.opts.Location)),
		StatusDistribution: adapters.MapDistributionToApi(analytics.StatusDistribution(filtered)),
		Locations:          adapters.MapDistributionToApi(analytics.LocationDistribution(filtered)),
	}, nil
}

func (s *Service) Analytics(ctx context.Context, tr domain.TimeRange) (*api.Analytics, error) {
	filtered, period, err := s.snapshot(ctx, tr, s.opts.DefaultRange)
	if err != nil {
		return nil, err
	}

	metrics := analytics.ComputeMetrics(filtered)
	byPeople := analytics.PeopleByLocation(filtered)
	categories := analytics.NeedCategoryDistribution(filtered)
	medicalPercent := percent(metrics.MedicalEmergencies, metrics.TotalRequests)

	res := &api.Analytics{
		Period:             adapters.MapTimePeriodDomainToApi(period),
		TotalRequests:      metrics.TotalRequests,
		TotalPeople:        metrics.TotalPeople,
		MedicalEmergencies: metrics.MedicalEmergencies,
		MedicalPercent:     medicalPercent,
		PeopleByLocation:   adapters.MapDistributionToApi(byPeople),
		NeedCategories:     adapters.MapDistributionToApi(categories),
		PriorityLocations:  make([]api.LocationShare, 0, priorityLocations),
		Recommendations:    make([]api.Recommendation, 0, recommendedCategories),
	}

	for i, e := range byPeople {
		if i == priorityLocations {
			break
		}
		res.PriorityLocations = append(res.PriorityLocations, api.LocationShare{
			Location: e.Key,
			People:   e.Count,
			Percent:  percent(e.Count, metrics.TotalPeople),
		})
	}

	for i, e := range mostRequested(categories) {
		if i == recommendedCategories {
			break
		}
		share := percent(e.Count, metrics.TotalRequests)
		res.Recommendations = append(res.Recommendations, api.Recommendation{
			Category: string(e.Key),
			Percent:  share,
			Message:  fmt.Sprintf("Allocate %d%% of %s resources", share, lower(e.Key)),
		})
	}

	if metrics.TotalRequests > 0 {
		res.Insight = InsightLocations
		if medicalPercent > medicalAlertPercent {
			res.Insight = InsightMedical
		}
	}
	return res, nil
}

func (s *Service) Timeline(ctx context.Context, tr domain.TimeRange, granularity domain.Granularity) (*api.Timeline, error) {
	if granularity == "" {
		granularity = s.opts.Granularity
	}
	filtered, period, err := s.snapshot(ctx, tr, s.opts.DefaultRange)
	if err != nil {
		return nil, err
	}

	return &api.Timeline{
		Period:      adapters.MapTimePeriodDomainToApi(period),
		Granularity: string(granularity),
		Buckets:     adapters.MapTimeBucketsToApi(analytics.GroupByTime(filtered, granularity, s.opts.Location)),
		HourOfDay:   adapters.MapDistributionToApi(analytics.HourOfDayTimeline(filtered, s.opts.Location)),
	}, nil
}

// percent rounds part/total to the nearest whole percent; 0 when total is 0.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
