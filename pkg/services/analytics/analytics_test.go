package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)

func riversideReports() []domain.Report {
	return []domain.Report{
		{
			ID:              "r1",
			Location:        "Riverside",
			PeopleCount:     5,
			NeedDescription: "need food and water",
			Status:          domain.StatusReceived,
			Timestamp:       t0,
		},
		{
			ID:              "r2",
			Location:        "Riverside",
			PeopleCount:     2,
			NeedDescription: "injured, need doctor",
			Status:          domain.StatusActioned,
			IsUrgentMedical: true,
			Timestamp:       t0.Add(time.Hour),
		},
	}
}

func TestRiversideExample(t *testing.T) {
	reports := riversideReports()

	assert.Equal(t,
		domain.Distribution[string]{{Key: "Riverside", Count: 7}},
		PeopleByLocation(reports))

	assert.Equal(t,
		domain.Distribution[domain.Category]{
			{Key: domain.CategoryFood, Count: 1},
			{Key: domain.CategoryMedical, Count: 1},
		},
		NeedCategoryDistribution(reports))

	metrics := ComputeMetrics(reports)
	assert.Equal(t, 2, metrics.TotalRequests)
	assert.Equal(t, 7, metrics.TotalPeople)
	assert.Equal(t, 1, metrics.MedicalEmergencies)
	assert.Equal(t, map[domain.Status]int{
		domain.StatusReceived:     1,
		domain.StatusAcknowledged: 0,
		domain.StatusActioned:     1,
	}, metrics.StatusCounts)
	assert.Equal(t, map[string]int{"Riverside": 2}, metrics.LocationCounts)
}

func TestEmptyInput(t *testing.T) {
	metrics := ComputeMetrics(nil)
	assert.Equal(t, 0, metrics.TotalRequests)
	assert.Equal(t, 0, metrics.TotalPeople)
	assert.Equal(t, 0, metrics.MedicalEmergencies)
	assert.Equal(t, map[domain.Status]int{
		domain.StatusReceived:     0,
		domain.StatusAcknowledged: 0,
		domain.StatusActioned:     0,
	}, metrics.StatusCounts)

	assert.Empty(t, LocationDistribution(nil))
	assert.Empty(t, PeopleByLocation(nil))
	assert.Empty(t, NeedCategoryDistribution(nil))
	assert.Empty(t, GroupByTime(nil, domain.GranularityHour, nil))
	assert.Empty(t, HourOfDayTimeline(nil, nil))
	assert.Empty(t, ApplyView(nil, domain.DefaultViewQuery()))
	assert.Empty(t, FilterByWindow(nil, 7, t0))

	status := StatusDistribution(nil)
	require.Len(t, status, 3)
	for i, s := range domain.Statuses {
		assert.Equal(t, s, status[i].Key)
		assert.Zero(t, status[i].Count)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		expected    domain.Category
	}{
		{"need food and water", domain.CategoryFood},
		{"need food and water, injured", domain.CategoryFood},
		{"evacuate now, also hungry", domain.CategoryFood},
		{"We are THIRSTY", domain.CategoryWater},
		{"injured, need doctor", domain.CategoryMedical},
		{"roof collapsed", domain.CategoryShelter},
		{"need to flee the flood", domain.CategoryEvacuation},
		{"lost my dog", domain.CategoryOther},
		{"", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := Categorize(tt.description)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, Categorize(tt.description))
			assert.Contains(t, domain.Categories, got)
		})
	}
}

func TestStatusDistribution_UnknownStatus(t *testing.T) {
	reports := []domain.Report{
		{Status: domain.StatusReceived},
		{Status: "Escalated"},
		{Status: ""},
		{Status: domain.StatusActioned},
	}

	dist := StatusDistribution(reports)
	assert.Equal(t, domain.Distribution[domain.Status]{
		{Key: domain.StatusReceived, Count: 1},
		{Key: domain.StatusAcknowledged, Count: 0},
		{Key: domain.StatusActioned, Count: 1},
		{Key: domain.StatusUnknown, Count: 2},
	}, dist)

	metrics := ComputeMetrics(reports)
	sum := 0
	for _, n := range metrics.StatusCounts {
		sum += n
	}
	assert.Equal(t, metrics.TotalRequests, sum)
}

func TestLocationDistribution_SortAndTruncate(t *testing.T) {
	var reports []domain.Report
	// loc-00 .. loc-11 each get one request, then a few extra for ranking.
	for i := 0; i < 12; i++ {
		reports = append(reports, domain.Report{Location: fmt.Sprintf("loc-%02d", i), PeopleCount: 1})
	}
	reports = append(reports,
		domain.Report{Location: "loc-05", PeopleCount: 1},
		domain.Report{Location: "loc-05", PeopleCount: 1},
		domain.Report{Location: "loc-09", PeopleCount: 1},
	)

	dist := LocationDistribution(reports)
	require.Len(t, dist, TopLocations)
	assert.Equal(t, domain.CountEntry[string]{Key: "loc-05", Count: 3}, dist[0])
	assert.Equal(t, domain.CountEntry[string]{Key: "loc-09", Count: 2}, dist[1])
	// Ties keep first-encounter order.
	assert.Equal(t, "loc-00", dist[2].Key)
	assert.Equal(t, "loc-01", dist[3].Key)
	assert.Equal(t, "loc-08", dist[9].Key)
}

func TestPeopleByLocation_DiffersFromRequestCount(t *testing.T) {
	reports := []domain.Report{
		{Location: "Hilltop", PeopleCount: 1},
		{Location: "Hilltop", PeopleCount: 1},
		{Location: "Hilltop", PeopleCount: 1},
		{Location: "Harbor", PeopleCount: 40},
		{Location: "harbor", PeopleCount: 2},
	}

	byRequests := LocationDistribution(reports)
	assert.Equal(t, "Hilltop", byRequests[0].Key)

	byPeople := PeopleByLocation(reports)
	assert.Equal(t, domain.Distribution[string]{
		{Key: "Harbor", Count: 40},
		{Key: "Hilltop", Count: 3},
		{Key: "harbor", Count: 2},
	}, byPeople)
}

func TestNeedCategoryDistribution_OmitsZeroCounts(t *testing.T) {
	reports := []domain.Report{
		{NeedDescription: "need shelter"},
		{NeedDescription: "water please"},
		{NeedDescription: "water"},
	}

	dist := NeedCategoryDistribution(reports)
	assert.Equal(t, domain.Distribution[domain.Category]{
		{Key: domain.CategoryWater, Count: 2},
		{Key: domain.CategoryShelter, Count: 1},
	}, dist)
	for _, e := range dist {
		assert.Positive(t, e.Count)
	}
	_, hasOther := dist.Get(domain.CategoryOther)
	assert.False(t, hasOther)
}

func TestFilterByWindow(t *testing.T) {
	now := t0
	reports := []domain.Report{
		{ID: "hour-ago", Timestamp: now.Add(-time.Hour)},
		{ID: "two-days", Timestamp: now.Add(-48 * time.Hour)},
		{ID: "malformed"},
		{ID: "boundary", Timestamp: now.Add(-72 * time.Hour)},
		{ID: "week-old", Timestamp: now.Add(-7*24*time.Hour - time.Minute)},
		{ID: "future", Timestamp: now.Add(time.Minute)},
	}

	ids := func(rs []domain.Report) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"hour-ago", "future"}, ids(FilterByWindow(reports, 1, now)))
	assert.Equal(t, []string{"hour-ago", "two-days", "boundary", "future"}, ids(FilterByWindow(reports, 3, now)))
	assert.Equal(t, []string{"future"}, ids(FilterByWindow(reports, 0, now)))
	assert.Equal(t, []string{"future"}, ids(FilterByWindow(reports, -2, now)))

	t.Run("narrower windows are subsequences of wider ones", func(t *testing.T) {
		for d1 := 0; d1 < 10; d1++ {
			for d2 := d1 + 1; d2 <= 10; d2++ {
				assert.True(t, isSubsequence(ids(FilterByWindow(reports, d1, now)), ids(FilterByWindow(reports, d2, now))),
					"window %d is not a subsequence of window %d", d1, d2)
			}
		}
	})

	t.Run("all time bypasses filtering", func(t *testing.T) {
		assert.Equal(t, ids(reports), ids(ApplyTimeRange(reports, domain.TimeRangeAll, now)))
		assert.Equal(t, []string{"hour-ago", "future"}, ids(ApplyTimeRange(reports, domain.TimeRange24h, now)))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := ids(reports)
		_ = FilterByWindow(reports, 1, now)
		assert.Equal(t, before, ids(reports))
	})
}

func TestGroupByTime(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 1, 20, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	reports := []domain.Report{
		{Timestamp: day2},
		{Timestamp: day1},
		{Timestamp: day1.Add(10 * time.Minute)},
		{},
		{Timestamp: day1.Add(13 * time.Hour)},
	}

	t.Run("hour", func(t *testing.T) {
		buckets := GroupByTime(reports, domain.GranularityHour, time.UTC)
		require.Len(t, buckets, 3)

		assert.Equal(t, time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC), buckets[0].Start)
		assert.Equal(t, "01 AM", buckets[0].Label)
		assert.Equal(t, 2, buckets[0].Count)

		assert.Equal(t, "02 PM", buckets[1].Label)
		assert.Equal(t, 1, buckets[1].Count)

		// Same label as the first bucket, but a different day.
		assert.Equal(t, "01 AM", buckets[2].Label)
		assert.Equal(t, time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC), buckets[2].Start)
	})

	t.Run("day", func(t *testing.T) {
		buckets := GroupByTime(reports, domain.GranularityDay, time.UTC)
		require.Len(t, buckets, 2)
		assert.Equal(t, domain.TimeBucket{Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Label: "3/1/2025", Count: 3}, buckets[0])
		assert.Equal(t, domain.TimeBucket{Start: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Label: "3/2/2025", Count: 1}, buckets[1])
	})

	t.Run("location shifts buckets", func(t *testing.T) {
		loc := time.FixedZone("UTC-5", -5*60*60)
		buckets := GroupByTime(reports, domain.GranularityDay, loc)
		require.Len(t, buckets, 2)
		assert.Equal(t, "2/28/2025", buckets[0].Label)
		assert.Equal(t, 2, buckets[0].Count)
	})
}

func TestHourOfDayTimeline(t *testing.T) {
	reports := []domain.Report{
		{Timestamp: time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC)},
		{Timestamp: time.Date(2025, 3, 2, 14, 50, 0, 0, time.UTC)},
		{Timestamp: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)},
		{},
	}

	assert.Equal(t, domain.Distribution[string]{
		{Key: "9:00", Count: 1},
		{Key: "14:00", Count: 2},
	}, HourOfDayTimeline(reports, time.UTC))
}

func isSubsequence(sub, seq []string) bool {
	i := 0
	for _, v := range seq {
		if i < len(sub) && sub[i] == v {
			i++
		}
	}
	return i == len(sub)
}
