package api

import "time"

type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type TimeBucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

type Metrics struct {
	TotalRequests      int            `json:"totalRequests"`
	TotalPeople        int            `json:"totalPeople"`
	MedicalEmergencies int            `json:"medicalEmergencies"`
	StatusCounts       map[string]int `json:"statusCounts"`
}

type TimePeriod struct {
	Range string     `json:"range"`
	Start *time.Time `json:"start,omitempty"`
	End   time.Time  `json:"end"`
}

type Overview struct {
	Period             TimePeriod   `json:"period"`
	Metrics            Metrics      `json:"metrics"`
	CompletionRate     int          `json:"completionRate"`
	Timeline           []TimeBucket `json:"timeline"`
	StatusDistribution []CountEntry `json:"statusDistribution"`
	Locations          []CountEntry `json:"locations"`
}

type LocationShare struct {
	Location string `json:"location"`
	People   int    `json:"people"`
	Percent  int    `json:"percent"`
}

type Recommendation struct {
	Category string `json:"category"`
	Percent  int    `json:"percent"`
	Message  string `json:"message"`
}

type Analytics struct {
	Period             TimePeriod       `json:"period"`
	TotalRequests      int              `json:"totalRequests"`
	TotalPeople        int              `json:"totalPeople"`
	MedicalEmergencies int              `json:"medicalEmergencies"`
	MedicalPercent     int              `json:"medicalPercent"`
	PeopleByLocation   []CountEntry     `json:"peopleByLocation"`
	NeedCategories     []CountEntry     `json:"needCategories"`
	PriorityLocations  []LocationShare  `json:"priorityLocations"`
	Recommendations    []Recommendation `json:"recommendations"`
	Insight            string           `json:"insight"`
}

type RequestRow struct {
	Report
	Category    string `json:"category"`
	ReceivedAgo string `json:"receivedAgo,omitempty"`
}

type Requests struct {
	Period TimePeriod   `json:"period"`
	Total  int          `json:"total"`
	Rows   []RequestRow `json:"rows"`
}

type Timeline struct {
	Period      TimePeriod   `json:"period"`
	Granularity string       `json:"granularity"`
	Buckets     []TimeBucket `json:"buckets"`
	HourOfDay   []CountEntry `json:"hourOfDay"`
}

type Error struct {
	Error string `json:"error"`
}
