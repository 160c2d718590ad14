package analytics

import (
	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

// ComputeMetrics summarizes a snapshot. StatusCounts carries the same buckets as
// StatusDistribution, so its values always add up to TotalRequests.
func ComputeMetrics(reports []domain.Report) domain.Metrics {
	metrics := domain.Metrics{
		TotalRequests:  len(reports),
		StatusCounts:   make(map[domain.Status]int, len(domain.Statuses)),
		LocationCounts: make(map[string]int),
	}

	for _, r := range reports {
		metrics.TotalPeople += r.PeopleCount
		if r.IsUrgentMedical {
			metrics.MedicalEmergencies++
		}
		metrics.LocationCounts[r.Location]++
	}

	for _, e := range StatusDistribution(reports) {
		metrics.StatusCounts[e.Key] = e.Count
	}
	return metrics
}
