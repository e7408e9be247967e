package models

import "time"

// UpcomingEvent is a scheduled show awaiting its date. The core reads these
// to drive fact aggregation; it never creates them.
type UpcomingEvent struct {
	ID          string    `json:"id"`
	Headliner   string    `json:"headliner"`
	EventDate   time.Time `json:"eventDate"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	Notes       string    `json:"notes,omitempty"`
	Approved    bool      `json:"approved"`
	SearchIndex []string  `json:"lineupSearch,omitempty"`
}
