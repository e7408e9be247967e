// Package archive reads and rewrites the flat-file show record and turns its
// rows into canonical in-memory records: identity hash applied, lineup split,
// date anchored to the Pacific calendar, search index regenerated.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"showsync/internal/dates"
	"showsync/internal/identity"
	"showsync/internal/models"
	"showsync/internal/tokens"
)

// SourceTag is the provenance value stamped on every record derived from the
// flat file.
const SourceTag = "CSV v1"

// ErrIncompleteRow signals a source row missing one of the fields the
// identity hash requires. Such rows are skipped, never partially imported.
var ErrIncompleteRow = errors.New("row missing required field")

// SplitLineup splits the pipe-delimited band list into trimmed act names.
func SplitLineup(field string) []string {
	var bands []string
	for _, b := range strings.Split(field, "|") {
		if b = strings.TrimSpace(b); b != "" {
			bands = append(bands, b)
		}
	}
	return bands
}

// NormalizeRow converts one source row into a canonical ShowRecord. An
// idHash already present on the row is trusted (it was derived by a previous
// pass); otherwise one is computed. The search index is always regenerated
// from the lineup; the lineupSearch cell is only a cache.
func NormalizeRow(row Row) (models.ShowRecord, error) {
	dateStr := row.Get(ColDate)
	venue := row.Get(ColVenue)
	city := row.Get(ColCity)
	lineup := SplitLineup(row.Get(ColBands))

	if dateStr == "" || venue == "" || city == "" || len(lineup) == 0 {
		return models.ShowRecord{}, ErrIncompleteRow
	}

	date, err := dates.ParseLocale(dateStr)
	if err != nil {
		return models.ShowRecord{}, fmt.Errorf("%w: %v", ErrIncompleteRow, err)
	}

	id := row.Get(ColIDHash)
	if id == "" {
		id, err = identity.Hash(dateStr, lineup, venue, city)
		if err != nil {
			return models.ShowRecord{}, fmt.Errorf("%w: %v", ErrIncompleteRow, err)
		}
	}

	return models.ShowRecord{
		ID:          id,
		Date:        date,
		Venue:       venue,
		City:        city,
		VenueCity:   venue + ", " + city,
		Lineup:      lineup,
		SearchIndex: tokens.Lineup(lineup),
		EventName:   row.Get(ColEvent),
		Source:      SourceTag,
	}, nil
}

// Records normalizes every row of the table, returning the canonical records
// and the count of rows skipped as incomplete.
func Records(t *Table) ([]models.ShowRecord, int) {
	var (
		records []models.ShowRecord
		skipped int
	)
	for _, row := range t.Rows {
		rec, err := NormalizeRow(row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// Stamp fills in the row's derived cells for an offline hash-generation
// pass: idHash only when missing, lineupSearch always regenerated.
func Stamp(row Row) (changed bool, err error) {
	dateStr := row.Get(ColDate)
	venue := row.Get(ColVenue)
	city := row.Get(ColCity)
	lineup := SplitLineup(row.Get(ColBands))

	if dateStr == "" || venue == "" || city == "" || len(lineup) == 0 {
		return false, ErrIncompleteRow
	}

	if row.Get(ColIDHash) == "" {
		id, err := identity.Hash(dateStr, lineup, venue, city)
		if err != nil {
			return false, err
		}
		row[ColIDHash] = id
		changed = true
	}

	index, err := json.Marshal(tokens.Lineup(lineup))
	if err != nil {
		return changed, fmt.Errorf("encode lineup search: %w", err)
	}
	if row[ColSearch] != string(index) {
		row[ColSearch] = string(index)
		changed = true
	}
	return changed, nil
}
