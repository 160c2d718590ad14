package analytics

import (
	"sort"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

// TopLocations caps location distributions.
const TopLocations = 10

// StatusDistribution always reports the three lifecycle statuses in canonical
// order. Reports with any other status are counted under StatusUnknown, which
// is appended only when non-empty.
func StatusDistribution(reports []domain.Report) domain.Distribution[domain.Status] {
	counts := make(map[domain.Status]int, len(domain.Statuses)+1)
	for _, r := range reports {
		counts[r.Status.Canonical()]++
	}

	dist := make(domain.Distribution[domain.Status], 0, len(domain.Statuses)+1)
	for _, s := range domain.Statuses {
		dist = append(dist, domain.CountEntry[domain.Status]{Key: s, Count: counts[s]})
	}
	if n := counts[domain.StatusUnknown]; n > 0 {
		dist = append(dist, domain.CountEntry[domain.Status]{Key: domain.StatusUnknown, Count: n})
	}
	return dist
}

// LocationDistribution ranks locations by number of requests.
func LocationDistribution(reports []domain.Report) domain.Distribution[string] {
	return rankLocations(reports, func(domain.Report) int { return 1 })
}

// PeopleByLocation ranks locations by the number of people implicated.
func PeopleByLocation(reports []domain.Report) domain.Distribution[string] {
	return rankLocations(reports, func(r domain.Report) int { return r.PeopleCount })
}

func rankLocations(reports []domain.Report, weight func(domain.Report) int) domain.Distribution[string] {
	index := make(map[string]int)
	dist := make(domain.Distribution[string], 0)
	for _, r := range reports {
		i, ok := index[r.Location]
		if !ok {
			i = len(dist)
			index[r.Location] = i
			dist = append(dist, domain.CountEntry[string]{Key: r.Location})
		}
		dist[i].Count += weight(r)
	}

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	if len(dist) > TopLocations {
		dist = dist[:TopLocations]
	}
	return dist
}

// NeedCategoryDistribution counts categorized needs in category declaration
// order. Categories nobody asked for are left out.
func NeedCategoryDistribution(reports []domain.Report) domain.Distribution[domain.Category] {
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, r := range reports {
		counts[Categorize(r.NeedDescription)]++
	}

	dist := make(domain.Distribution[domain.Category], 0, len(counts))
	for _, c := range domain.Categories {
		if n := counts[c]; n > 0 {
			dist = append(dist, domain.CountEntry[domain.Category]{Key: c, Count: n})
		}
	}
	return dist
}
