package adapters

import (
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

func MapDistributionToApi[K comparable](d domain.Distribution[K]) []api.CountEntry {
	res := make([]api.CountEntry, 0, len(d))
	for _, e := range d {
		res = append(res, api.CountEntry{Key: fmt.Sprint(e.Key), Count: e.Count})
	}
	return res
}

func MapTimeBucketsToApi(buckets []domain.TimeBucket) []api.TimeBucket {
	res := make([]api.TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		res = append(res, api.TimeBucket{Start: b.Start, Label: b.Label, Count: b.Count})
	}
	return res
}

func MapMetricsDomainToApi(m domain.Metrics) api.Metrics {
	counts := make(map[string]int, len(m.StatusCounts))
	for s, n := range m.StatusCounts {
		counts[string(s)] = n
	}
	return api.Metrics{
		TotalRequests:      m.TotalRequests,
		TotalPeople:        m.TotalPeople,
		MedicalEmergencies: m.MedicalEmergencies,
		StatusCounts:       counts,
	}
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Range: string(p.Range),
		Start: p.Start,
		End:   p.End,
	}
}
