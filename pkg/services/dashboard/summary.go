package dashboard

import (
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

func period(p api.TimePeriod) domain.TimePeriod {
	return domain.TimePeriod{Range: domain.TimeRange(p.Range), Start: p.Start, End: p.End}
}

func countDetails(entries []api.CountEntry, unit string) []domain.SummaryDetail {
	details := make([]domain.SummaryDetail, 0, len(entries))
	for _, e := range entries {
		details = append(details, domain.SummaryDetail{Name: e.Key, Value: e.Count, Unit: unit})
	}
	return details
}

func SummarizeOverview(o *api.Overview) *domain.Summary {
	return &domain.Summary{
		Title:  "Overview",
		Period: period(o.Period),
		Sections: []domain.SummarySection{
			{
				Title: "Metrics",
				Summary: map[string]interface{}{
					"Active Requests":     o.Metrics.TotalRequests,
					"People Affected":     o.Metrics.TotalPeople,
					"Medical Emergencies": o.Metrics.MedicalEmergencies,
					"Completion Rate":     fmt.Sprintf("%d%%", o.CompletionRate),
				},
			},
			{
				Title:   "Request Status",
				Details: countDetails(o.StatusDistribution, "requests"),
			},
			{
				Title:   "Requests by Location",
				Details: countDetails(o.Locations, "requests"),
			},
			{
				Title:   "Requests per Hour",
				Details: bucketDetails(o.Timeline),
			},
		},
	}
}

func SummarizeAnalytics(a *api.Analytics) *domain.Summary {
	priority := make([]domain.SummaryDetail, 0, len(a.PriorityLocations))
	for _, l := range a.PriorityLocations {
		priority = append(priority, domain.SummaryDetail{
			Name:        l.Location,
			Value:       l.People,
			Unit:        "people",
			Description: fmt.Sprintf("%d%% of people in need", l.Percent),
		})
	}

	recommendations := make([]domain.SummaryDetail, 0, len(a.Recommendations))
	for _, r := range a.Recommendations {
		recommendations = append(recommendations, domain.SummaryDetail{
			Name:        r.Category,
			Value:       r.Percent,
			Unit:        "%",
			Description: r.Message,
		})
	}

	summary := map[string]interface{}{
		"Total Requests":      a.TotalRequests,
		"People Affected":     a.TotalPeople,
		"Medical Emergencies": fmt.Sprintf("%d (%d%%)", a.MedicalEmergencies, a.MedicalPercent),
	}
	if a.Insight != "" {
		summary["Insight"] = a.Insight
	}

	return &domain.Summary{
		Title:  "Analytics",
		Period: period(a.Period),
		Sections: []domain.SummarySection{
			{Title: "Totals", Summary: summary},
			{Title: "People by Location", Details: countDetails(a.PeopleByLocation, "people")},
			{Title: "Need Categories", Details: countDetails(a.NeedCategories, "requests")},
			{Title: "Priority Locations", Details: priority},
			{Title: "Resource Recommendations", Details: recommendations},
		},
	}
}

func SummarizeTimeline(t *api.Timeline) *domain.Summary {
	return &domain.Summary{
		Title:  "Timeline",
		Period: period(t.Period),
		Sections: []domain.SummarySection{
			{Title: fmt.Sprintf("Requests per %s", t.Granularity), Details: bucketDetails(t.Buckets)},
			{Title: "Requests by Hour of Day", Details: countDetails(t.HourOfDay, "requests")},
		},
	}
}

func bucketDetails(buckets []api.TimeBucket) []domain.SummaryDetail {
	details := make([]domain.SummaryDetail, 0, len(buckets))
	for _, b := range buckets {
		details = append(details, domain.SummaryDetail{
			Name:        b.Label,
			Value:       b.Count,
			Unit:        "requests",
			Description: b.Start.Format("2006-01-02 15:04 MST"),
		})
	}
	return details
}
