package models

// HeadlinerFact is the aggregator's output for one approved upcoming event:
// everything the archive knows about the headliner, rebuilt from current
// store state on every run. The JSON shape is the boundary contract handed
// to the narrative renderer.
type HeadlinerFact struct {
	EventID     string    `json:"eventId"`
	Headliner   string    `json:"headliner"`
	EventDate   string    `json:"eventDate"` // Pacific calendar day, YYYY-MM-DD
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	SupportActs []string  `json:"supportActs"`
	Notes       string    `json:"notes"`
	Stats       FactStats `json:"stats"`
}

// FactStats carries the per-headliner aggregates.
type FactStats struct {
	TotalPastShows    int             `json:"totalPastShows"`
	AllShows          []PastShow      `json:"allShows"`
	EarliestYear      int             `json:"earliestYear,omitempty"`
	MostRecentRelease *ReleaseSummary `json:"mostRecentRelease"`
	SharedShows       []SharedShow    `json:"sharedShows"`
}

// PastShow is one prior documented performance by the headliner.
type PastShow struct {
	Date   string   `json:"date"` // Pacific calendar day, YYYY-MM-DD
	Venue  string   `json:"venue"`
	City   string   `json:"city"`
	Lineup []string `json:"lineup"`
}

// ReleaseSummary condenses the headliner's most recent release.
type ReleaseSummary struct {
	Title     string `json:"title"`
	MonthYear string `json:"monthYear"`
	URL       string `json:"url,omitempty"`
}

// SharedShow is a historical show where the headliner and one of the current
// support acts appeared on the same bill.
type SharedShow struct {
	SupportAct string `json:"supportAct"`
	Date       string `json:"date"`
	Venue      string `json:"venue"`
	City       string `json:"city"`
}
