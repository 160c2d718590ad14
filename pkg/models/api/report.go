package api

import "time"

// Report is the wire shape used by the report backend.
type Report struct {
	ID              string `json:"_id"`
	Location        string `json:"location"`
	PeopleCount     int    `json:"peopleCount"`
	NeedDescription string `json:"needDescription"`
	Status          string `json:"status"`
	IsUrgentMedical bool   `json:"isUrgentMedical"`
	Timestamp       string `json:"timestamp"`
	CallSID         string `json:"callSid"`
	CallerNumber    string `json:"callerNumber"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}

// Document is the wire shape used by the document backend. Name and upload
// time are optional.
type Document struct {
	ID           string `json:"_id"`
	OriginalName string `json:"originalName,omitempty"`
	UploadedAt   string `json:"uploadedAt,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

type SyncState struct {
	Source       string    `json:"source"`
	SyncedAt     time.Time `json:"syncedAt"`
	ReportsCount int64     `json:"reportsCount"`
	Error        string    `json:"error,omitempty"`
}
