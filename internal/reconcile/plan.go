// Package reconcile diffs a freshly normalized record set against a store
// snapshot and applies the resulting mutation plan in bounded batches. The
// diff treats absence from the incoming set as deletion intent: orphan
// removal is the only way old shows leave the archive.
package reconcile

import (
	"encoding/json"
	"sort"

	"showsync/internal/dates"
	"showsync/internal/models"
)

// canonicalShow is the serialization records are compared under. Dates
// collapse to their Pacific calendar day and search tokens are sorted, so
// regenerating a derivable field never reads as a spurious update. Lineup
// keeps source order: a reordered bill is a real change.
type canonicalShow struct {
	Date        string   `json:"date"`
	Venue       string   `json:"venue"`
	City        string   `json:"city"`
	VenueCity   string   `json:"venueCity"`
	EventName   string   `json:"eventName"`
	Lineup      []string `json:"lineup"`
	SearchIndex []string `json:"lineupSearch"`
	Source      string   `json:"source"`
}

func canonicalize(rec models.ShowRecord) string {
	index := append([]string(nil), rec.SearchIndex...)
	sort.Strings(index)

	b, _ := json.Marshal(canonicalShow{
		Date:        dates.Day(rec.Date),
		Venue:       rec.Venue,
		City:        rec.City,
		VenueCity:   rec.VenueCity,
		EventName:   rec.EventName,
		Lineup:      rec.Lineup,
		SearchIndex: index,
		Source:      rec.Source,
	})
	return string(b)
}

// BuildPlan computes the create/update/delete plan that reconciles existing
// store state with the incoming record set. The existing map is consumed:
// matched ids are removed so the remainder reads as orphans.
func BuildPlan(incoming []models.ShowRecord, existing map[string]models.ShowRecord) models.Plan {
	var plan models.Plan

	for _, rec := range incoming {
		old, ok := existing[rec.ID]
		if !ok {
			plan.Creates = append(plan.Creates, rec)
			continue
		}
		if canonicalize(old) != canonicalize(rec) {
			plan.Updates = append(plan.Updates, rec)
		}
		delete(existing, rec.ID) // mark matched
	}

	orphans := make([]string, 0, len(existing))
	for id := range existing {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	plan.Deletes = orphans

	return plan
}
