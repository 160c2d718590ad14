package adapters

import (
	"context"
	"strings"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Layouts accepted for report timestamps, most specific first. RFC3339 also
// covers fractional seconds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp returns the zero time when value matches no known layout.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func MapApiReportToDomain(r api.Report) domain.Report {
	ts, _ := ParseTimestamp(r.Timestamp)
	return domain.Report{
		ID:              r.ID,
		Location:        r.Location,
		PeopleCount:     max(r.PeopleCount, 0),
		NeedDescription: r.NeedDescription,
		Status:          domain.Status(r.Status),
		IsUrgentMedical: r.IsUrgentMedical,
		Timestamp:       ts,
		CallerNumber:    r.CallerNumber,
		CallSID:         r.CallSID,
	}
}

func MapDomainReportToApi(r domain.Report) api.Report {
	return api.Report{
		ID:              r.ID,
		Location:        r.Location,
		PeopleCount:     r.PeopleCount,
		NeedDescription: r.NeedDescription,
		Status:          string(r.Status),
		IsUrgentMedical: r.IsUrgentMedical,
		Timestamp:       FormatTimestamp(r.Timestamp),
		CallSID:         r.CallSID,
		CallerNumber:    r.CallerNumber,
	}
}

func MapStoreReportToDomain(r store.ReportRecord) domain.Report {
	ts, _ := ParseTimestamp(r.Timestamp)
	return domain.Report{
		ID:              r.ID,
		Location:        r.Location,
		PeopleCount:     int(max(r.PeopleCount, 0)),
		NeedDescription: r.NeedDescription,
		Status:          domain.Status(r.Status),
		IsUrgentMedical: r.IsUrgentMedical,
		Timestamp:       ts,
		CallerNumber:    r.CallerNumber,
		CallSID:         r.CallSID,
	}
}

func MapApiReportToStore(r api.Report) store.ReportRecord {
	return store.ReportRecord{
		ID:              r.ID,
		Location:        r.Location,
		PeopleCount:     int64(r.PeopleCount),
		NeedDescription: r.NeedDescription,
		Status:          r.Status,
		IsUrgentMedical: r.IsUrgentMedical,
		Timestamp:       r.Timestamp,
		CallerNumber:    r.CallerNumber,
		CallSID:         r.CallSID,
	}
}

func MapStoreReportToApi(r store.ReportRecord) api.Report {
	return api.Report{
		ID:              r.ID,
		Location:        r.Location,
		PeopleCount:     int(r.PeopleCount),
		NeedDescription: r.NeedDescription,
		Status:          r.Status,
		IsUrgentMedical: r.IsUrgentMedical,
		Timestamp:       r.Timestamp,
		CallSID:         r.CallSID,
		CallerNumber:    r.CallerNumber,
	}
}

// MapApiReportsToDomain converts a fetched snapshot, logging records the
// analytics will treat as malformed or unknown.
func MapApiReportsToDomain(ctx context.Context, reports []api.Report) []domain.Report {
	logger := zerolog.Ctx(ctx)

	res := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		d := MapApiReportToDomain(r)
		if !d.HasTimestamp() {
			logger.Warn().
				Str("report_id", r.ID).
				Str("timestamp", r.Timestamp).
				Msg("report timestamp is malformed, excluding it from time-based views")
		}
		if !d.Status.Valid() {
			logger.Warn().
				Str("report_id", r.ID).
				Str("status", r.Status).
				Msg("report status is unknown")
		}
		if r.PeopleCount < 0 {
			logger.Warn().
				Str("report_id", r.ID).
				Int("people_count", r.PeopleCount).
				Msg("negative people count clamped to zero")
		}
		res = append(res, d)
	}
	return res
}

func MapStoreReportsToApi(records []store.ReportRecord) []api.Report {
	res := make([]api.Report, 0, len(records))
	for _, r := range records {
		res = append(res, MapStoreReportToApi(r))
	}
	return res
}

func MapApiReportsToStore(reports []api.Report) []store.ReportRecord {
	res := make([]store.ReportRecord, 0, len(reports))
	for _, r := range reports {
		res = append(res, MapApiReportToStore(r))
	}
	return res
}

func MapStoreSyncStateToApi(s store.SyncState) api.SyncState {
	res := api.SyncState{
		Source:       s.Source,
		SyncedAt:     s.SyncedAt,
		ReportsCount: s.ReportsCount,
	}
	if s.Error != nil {
		res.Error = *s.Error
	}
	return res
}
