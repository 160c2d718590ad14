package analytics

import (
	"sort"
	"strings"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

// ApplyView filters and sorts reports for the requests table. The result is a
// new slice; sorting is stable so equal keys keep their relative order.
func ApplyView(reports []domain.Report, query domain.ViewQuery) []domain.Report {
	search := strings.ToLower(query.SearchText)

	view := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if query.StatusFilter != "" && r.Status != query.StatusFilter {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		view = append(view, r)
	}

	cmp := compareBy(query.SortKey)
	desc := query.SortDirection == domain.SortDesc
	sort.SliceStable(view, func(i, j int) bool {
		if desc {
			return cmp(view[j], view[i]) < 0
		}
		return cmp(view[i], view[j]) < 0
	})
	return view
}

func matchesSearch(r domain.Report, search string) bool {
	return strings.Contains(strings.ToLower(r.Location), search) ||
		strings.Contains(strings.ToLower(r.NeedDescription), search) ||
		strings.Contains(strings.ToLower(r.CallerNumber), search)
}

type comparator func(a, b domain.Report) int

func compareBy(key domain.SortKey) comparator {
	switch key {
	case domain.SortByID:
		return func(a, b domain.Report) int { return strings.Compare(a.ID, b.ID) }
	case domain.SortByLocation:
		return func(a, b domain.Report) int { return strings.Compare(a.Location, b.Location) }
	case domain.SortByPeopleCount:
		return func(a, b domain.Report) int { return compareInts(a.PeopleCount, b.PeopleCount) }
	case domain.SortByNeedDescription:
		return func(a, b domain.Report) int { return strings.Compare(a.NeedDescription, b.NeedDescription) }
	case domain.SortByStatus:
		return func(a, b domain.Report) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case domain.SortByUrgentMedical:
		return func(a, b domain.Report) int { return compareBools(a.IsUrgentMedical, b.IsUrgentMedical) }
	case domain.SortByCallerNumber:
		return func(a, b domain.Report) int { return strings.Compare(a.CallerNumber, b.CallerNumber) }
	default:
		return func(a, b domain.Report) int { return a.Timestamp.Compare(b.Timestamp) }
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
