package domain

import (
	"fmt"
	"strings"
	"time"
)

type CountEntry[K comparable] struct {
	Key   K
	Count int
}

// Distribution is an ordered sequence of (key, count) pairs.
type Distribution[K comparable] []CountEntry[K]

func (d Distribution[K]) Total() int {
	total := 0
	for _, e := range d {
		total += e.Count
	}
	return total
}

// Get returns the count recorded for key and whether the key is present.
func (d Distribution[K]) Get(key K) (int, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

type TimeBucket struct {
	Start time.Time
	Label string
	Count int
}

type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(value))) {
	case "", GranularityHour:
		return GranularityHour, nil
	case GranularityDay:
		return GranularityDay, nil
	}
	return "", fmt.Errorf("unknown granularity %q, expected hour or day", value)
}

type Metrics struct {
	TotalRequests      int
	TotalPeople        int
	MedicalEmergencies int
	StatusCounts       map[Status]int
	LocationCounts     map[string]int
}

type TimeRange string

const (
	TimeRange24h TimeRange = "24h"
	TimeRange3d  TimeRange = "3d"
	TimeRange7d  TimeRange = "7d"
	TimeRangeAll TimeRange = "all"
)

var TimeRanges = []TimeRange{TimeRange24h, TimeRange3d, TimeRange7d, TimeRangeAll}

// Days returns the trailing window length; TimeRangeAll has no window.
func (tr TimeRange) Days() (int, bool) {
	switch tr {
	case TimeRange24h:
		return 1, true
	case TimeRange3d:
		return 3, true
	case TimeRange7d:
		return 7, true
	}
	return 0, false
}

// ParseTimeRange falls back to def when value is empty.
func ParseTimeRange(value string, def TimeRange) (TimeRange, error) {
	v := TimeRange(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return def, nil
	}
	for _, tr := range TimeRanges {
		if v == tr {
			return tr, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q, expected one of %v", value, TimeRanges)
}

type SortKey string

const (
	SortByID              SortKey = "id"
	SortByLocation        SortKey = "location"
	SortByPeopleCount     SortKey = "peopleCount"
	SortByNeedDescription SortKey = "needDescription"
	SortByStatus          SortKey = "status"
	SortByUrgentMedical   SortKey = "isUrgentMedical"
	SortByTimestamp       SortKey = "timestamp"
	SortByCallerNumber    SortKey = "callerNumber"
)

var SortKeys = []SortKey{
	SortByID,
	SortByLocation,
	SortByPeopleCount,
	SortByNeedDescription,
	SortByStatus,
	SortByUrgentMedical,
	SortByTimestamp,
	SortByCallerNumber,
}

func ParseSortKey(value string) (SortKey, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return SortByTimestamp, nil
	}
	for _, k := range SortKeys {
		if strings.EqualFold(v, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", value)
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortDesc:
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q, expected asc or desc", value)
}

// ViewQuery drives the requests table. An empty StatusFilter passes every report.
type ViewQuery struct {
	SearchText    string
	StatusFilter  Status
	SortKey       SortKey
	SortDirection SortDirection
}

// DefaultViewQuery sorts newest first.
func DefaultViewQuery() ViewQuery {
	return ViewQuery{SortKey: SortByTimestamp, SortDirection: SortDesc}
}
