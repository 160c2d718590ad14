package domain

import "time"

// Summary is a rendered dashboard page handed to terminal reporters.
type Summary struct {
	Title    string
	Period   TimePeriod
	Sections []SummarySection
}

// TimePeriod represents the window a summary covers
type TimePeriod struct {
	Range TimeRange
	Start *time.Time
	End   time.Time
}

// SummarySection represents a logical section in the summary
type SummarySection struct {
	Title   string
	Summary map[string]interface{}
	Details []SummaryDetail
}

// SummaryDetail is a single row within a section
type SummaryDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
