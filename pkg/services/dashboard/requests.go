package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/analytics"
)

var csvHeader = []string{
	"ID",
	"Location",
	"People Count",
	"Need Description",
	"Status",
	"Medical Emergency",
	"Timestamp",
	"Caller Number",
}

func (s *Service) Requests(ctx context.Context, tr domain.TimeRange, query domain.ViewQuery) (*api.Requests, error) {
	filtered, period, err := s.snapshot(ctx, tr, s.opts.DefaultRange)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := analytics.ApplyView(filtered, query)
	rows := make([]api.RequestRow, 0, len(view))
	for _, r := range view {
		row := api.RequestRow{
			Report:   adapters.MapDomainReportToApi(r),
			Category: string(analytics.Categorize(r.NeedDescription)),
		}
		if r.HasTimestamp() {
			row.ReceivedAgo = RelativeTime(r.Timestamp, now)
		}
		rows = append(rows, row)
	}

	return &api.Requests{
		Period: adapters.MapTimePeriodDomainToApi(period),
		Total:  len(filtered),
		Rows:   rows,
	}, nil
}

// WriteCSV exports request rows in the order given.
func WriteCSV(w io.Writer, rows []api.RequestRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Location,
			strconv.Itoa(r.PeopleCount),
			r.NeedDescription,
			r.Status,
			strconv.FormatBool(r.IsUrgentMedical),
			r.Timestamp,
			r.CallerNumber,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RelativeTime renders how long ago t was, e.g. "5 minutes ago". Times in the
// future read as "0 seconds ago".
func RelativeTime(t, now time.Time) string {
	seconds := int(now.Sub(t) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%d seconds ago", seconds)
	}
	if minutes := seconds / 60; minutes < 60 {
		return plural(minutes, "minute")
	}
	if hours := seconds / 3600; hours < 24 {
		return plural(hours, "hour")
	}
	return plural(seconds/86400, "day")
}

func plural(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

func lower(c domain.Category) string {
	return strings.ToLower(string(c))
}

// mostRequested orders categories by count, keeping declaration order on ties.
func mostRequested(d domain.Distribution[domain.Category]) domain.Distribution[domain.Category] {
	sorted := make(domain.Distribution[domain.Category], len(d))
	copy(sorted, d)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}
