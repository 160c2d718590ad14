package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusReceived     Status = "Received"
	StatusAcknowledged Status = "Acknowledged"
	StatusActioned     Status = "Actioned"

	// StatusUnknown buckets any value outside the triage lifecycle.
	StatusUnknown Status = "Unknown"
)

// Statuses is the canonical lifecycle order.
var Statuses = []Status{StatusReceived, StatusAcknowledged, StatusActioned}

func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusAcknowledged, StatusActioned:
		return true
	}
	return false
}

// Canonical folds anything that is not a lifecycle status into StatusUnknown.
func (s Status) Canonical() Status {
	if s.Valid() {
		return s
	}
	return StatusUnknown
}

// ParseStatus matches a lifecycle status case-insensitively.
func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses {
		if strings.EqualFold(strings.TrimSpace(value), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q, expected one of %v", value, Statuses)
}

// ParseStatusFilter returns an empty status for "all" or an empty value.
func ParseStatusFilter(value string) (Status, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "all") {
		return "", nil
	}
	return ParseStatus(v)
}

type Category string

const (
	CategoryFood       Category = "Food"
	CategoryWater      Category = "Water"
	CategoryMedical    Category = "Medical"
	CategoryShelter    Category = "Shelter"
	CategoryEvacuation Category = "Evacuation"
	CategoryOther      Category = "Other"
)

// Categories lists need categories in declaration order.
var Categories = []Category{
	CategoryFood,
	CategoryWater,
	CategoryMedical,
	CategoryShelter,
	CategoryEvacuation,
	CategoryOther,
}

// Report is a single assistance request as received from the report source.
// A zero Timestamp marks a timestamp that could not be parsed.
type Report struct {
	ID              string
	Location        string    // Riverside
	PeopleCount     int       // 5
	NeedDescription string    // "need food and water"
	Status          Status    // Received
	IsUrgentMedical bool      // false
	Timestamp       time.Time // 2025-03-01T10:15:00Z
	CallerNumber    string    // +1 555 0100
	CallSID         string
}

func (r Report) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
