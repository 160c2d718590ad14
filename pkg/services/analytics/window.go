package analytics

import (
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

const day = 24 * time.Hour

// FilterByWindow keeps reports whose timestamp is not older than days before now,
// preserving input order. Reports without a valid timestamp are dropped.
// days <= 0 leaves only reports at or after now.
func FilterByWindow(reports []domain.Report, days int, now time.Time) []domain.Report {
	if days < 0 {
		days = 0
	}
	cutoff := now.Add(-time.Duration(days) * day)

	filtered := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if !r.HasTimestamp() {
			continue
		}
		if !r.Timestamp.Before(cutoff) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ApplyTimeRange resolves a dashboard selector. TimeRangeAll skips filtering.
func ApplyTimeRange(reports []domain.Report, tr domain.TimeRange, now time.Time) []domain.Report {
	days, bounded := tr.Days()
	if !bounded {
		return append([]domain.Report(nil), reports...)
	}
	return FilterByWindow(reports, days, now)
}
