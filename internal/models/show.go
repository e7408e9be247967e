package models

import "time"

// ShowRecord is a single documented performance in the show archive.
// ID is a content address derived from the defining fields (date, lineup,
// venue, city), so re-deriving a record from the same source row always
// lands on the same document.
type ShowRecord struct {
	ID          string    `json:"idHash"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	VenueCity   string    `json:"venueCity"`
	Lineup      []string  `json:"lineup"`
	SearchIndex []string  `json:"lineupSearch"`
	EventName   string    `json:"eventName,omitempty"`
	Source      string    `json:"source"`
}

// Plan is the output of a reconciliation diff: the mutations needed to bring
// the store in line with the incoming record set. It is built once per run
// and consumed immediately.
type Plan struct {
	Creates []ShowRecord
	Updates []ShowRecord
	Deletes []string // orphan ids
	Skipped int      // source rows dropped during normalization
}

// Total is the number of pending mutations.
func (p Plan) Total() int {
	return len(p.Creates) + len(p.Updates) + len(p.Deletes)
}

// Empty reports whether the plan contains no mutations.
func (p Plan) Empty() bool {
	return p.Total() == 0
}
