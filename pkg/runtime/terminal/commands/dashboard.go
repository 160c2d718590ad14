package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

// summaryCmd renders one dashboard page over a time range.
type summaryCmd struct {
	env       *Env
	timeRange string
	render    func(ctx context.Context, svc *dashboard.Service, tr domain.TimeRange) (*domain.Summary, error)
}

func (sc *summaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	tr, err := domain.ParseTimeRange(sc.timeRange, "")
	if err != nil {
		return err
	}
	reporter, err := sc.env.reporter()
	if err != nil {
		return err
	}

	svc, release, err := sc.env.Dashboard(ctx)
	if err != nil {
		return err
	}
	defer release()

	summary, err := sc.render(ctx, svc, tr)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", cmd.Name(), err)
	}
	return reporter.Handle(summary)
}

func newSummaryCmd(sc *summaryCmd, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	cmd.Flags().StringVar(&sc.timeRange, "range", "", "Time range: 24h, 3d, 7d or all")
	return cmd
}

func NewOverviewCmd(env *Env) *cobra.Command {
	return newSummaryCmd(&summaryCmd{
		env: env,
		render: func(ctx context.Context, svc *dashboard.Service, tr domain.TimeRange) (*domain.Summary, error) {
			overview, err := svc.Overview(ctx, tr)
			if err != nil {
				return nil, err
			}
			return dashboard.SummarizeOverview(overview), nil
		},
	}, "overview", "Show headline metrics and distributions")
}

func NewAnalyticsCmd(env *Env) *cobra.Command {
	return newSummaryCmd(&summaryCmd{
		env: env,
		render: func(ctx context.Context, svc *dashboard.Service, tr domain.TimeRange) (*domain.Summary, error) {
			analytics, err := svc.Analytics(ctx, tr)
			if err != nil {
				return nil, err
			}
			return dashboard.SummarizeAnalytics(analytics), nil
		},
	}, "analytics", "Show priority locations and resource recommendations")
}

func NewTimelineCmd(env *Env) *cobra.Command {
	var granularity string
	cmd := newSummaryCmd(&summaryCmd{
		env: env,
		render: func(ctx context.Context, svc *dashboard.Service, tr domain.TimeRange) (*domain.Summary, error) {
			var g domain.Granularity
			if granularity != "" {
				var err error
				if g, err = domain.ParseGranularity(granularity); err != nil {
					return nil, err
				}
			}
			timeline, err := svc.Timeline(ctx, tr, g)
			if err != nil {
				return nil, err
			}
			return dashboard.SummarizeTimeline(timeline), nil
		},
	}, "timeline", "Show request counts per hour or day")
	cmd.Flags().StringVar(&granularity, "granularity", "", "Bucket size: hour or day")
	return cmd
}
