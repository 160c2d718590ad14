package store

import "time"

// ReportRecord is a report row as persisted in the local snapshot or read from
// the backend database. Timestamp stays raw so unparsable values survive a round trip.
type ReportRecord struct {
	ID              string
	Location        string
	PeopleCount     int64
	NeedDescription string
	Status          string
	IsUrgentMedical bool
	Timestamp       string
	CallerNumber    string
	CallSID         string
}

type SyncState struct {
	Source       string
	SyncedAt     time.Time
	ReportsCount int64
	Error        *string
}
