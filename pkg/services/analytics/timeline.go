package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

const (
	hourLabelLayout = "03 PM"
	dayLabelLayout  = "1/2/2006"
)

// GroupByTime builds a histogram of reports per hour or day in loc (UTC when nil).
// Buckets are keyed by their start instant, so equal labels on different days
// stay separate. Only non-empty buckets are returned, oldest first.
func GroupByTime(reports []domain.Report, granularity domain.Granularity, loc *time.Location) []domain.TimeBucket {
	if loc == nil {
		loc = time.UTC
	}

	counts := make(map[int64]int)
	for _, r := range reports {
		if !r.HasTimestamp() {
			continue
		}
		counts[truncate(r.Timestamp.In(loc), granularity).Unix()]++
	}

	buckets := make([]domain.TimeBucket, 0, len(counts))
	for sec, n := range counts {
		start := time.Unix(sec, 0).In(loc)
		buckets = append(buckets, domain.TimeBucket{
			Start: start,
			Label: bucketLabel(start, granularity),
			Count: n,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

func truncate(t time.Time, granularity domain.Granularity) time.Time {
	if granularity == domain.GranularityDay {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	// Stepping back from the instant keeps repeated wall-clock hours apart on DST changes.
	return t.Add(-time.Duration(t.Minute())*time.Minute -
		time.Duration(t.Second())*time.Second -
		time.Duration(t.Nanosecond()))
}

func bucketLabel(start time.Time, granularity domain.Granularity) string {
	if granularity == domain.GranularityDay {
		return start.Format(dayLabelLayout)
	}
	return start.Format(hourLabelLayout)
}

// HourOfDayTimeline folds reports onto the 24 hours of the day in loc, labelled "H:00".
func HourOfDayTimeline(reports []domain.Report, loc *time.Location) domain.Distribution[string] {
	if loc == nil {
		loc = time.UTC
	}

	var counts [24]int
	for _, r := range reports {
		if !r.HasTimestamp() {
			continue
		}
		counts[r.Timestamp.In(loc).Hour()]++
	}

	dist := make(domain.Distribution[string], 0)
	for hour, n := range counts {
		if n > 0 {
			dist = append(dist, domain.CountEntry[string]{Key: fmt.Sprintf("%d:00", hour), Count: n})
		}
	}
	return dist
}
