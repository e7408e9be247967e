package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"showsync/internal/models"
)

const showColumns = `id, date, venue, city, venue_city, COALESCE(event_name, ''), lineup, lineup_search, source`

// SnapshotShows reads the entire show collection keyed by id. Reconciliation
// diffs against this snapshot; concurrent writers are out of scope.
func (s *Store) SnapshotShows(ctx context.Context) (map[string]models.ShowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+showColumns+`
		FROM shows
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot shows: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]models.ShowRecord)
	for rows.Next() {
		rec, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		snapshot[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return snapshot, nil
}

// ShowsByTerm returns every show whose search index contains the normalized
// term, newest first.
func (s *Store) ShowsByTerm(ctx context.Context, term string) ([]models.ShowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+showColumns+`
		FROM shows
		WHERE lineup_search @> ARRAY[$1]::text[]
		ORDER BY date DESC
	`, term)
	if err != nil {
		return nil, fmt.Errorf("shows by term: %w", err)
	}
	defer rows.Close()
	return collectShows(rows)
}

// ShowsByAnyTerm returns shows whose search index intersects the term set,
// newest first. Callers cap the term set to bound query fan-out.
func (s *Store) ShowsByAnyTerm(ctx context.Context, terms []string) ([]models.ShowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+showColumns+`
		FROM shows
		WHERE lineup_search && $1::text[]
		ORDER BY date DESC
	`, pq.Array(terms))
	if err != nil {
		return nil, fmt.Errorf("shows by any term: %w", err)
	}
	defer rows.Close()
	return collectShows(rows)
}

// CountShows returns the size of the show collection.
func (s *Store) CountShows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shows: %w", err)
	}
	return n, nil
}

// ProbeTerm fetches up to limit shows matching a search term. Used by the
// read-only archive validator.
func (s *Store) ProbeTerm(ctx context.Context, term string, limit int) ([]models.ShowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+showColumns+`
		FROM shows
		WHERE lineup_search @> ARRAY[$1]::text[]
		ORDER BY date DESC
		LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("probe term: %w", err)
	}
	defer rows.Close()
	return collectShows(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(r rowScanner) (models.ShowRecord, error) {
	var (
		rec    models.ShowRecord
		lineup pq.StringArray
		index  pq.StringArray
	)
	err := r.Scan(&rec.ID, &rec.Date, &rec.Venue, &rec.City, &rec.VenueCity,
		&rec.EventName, &lineup, &index, &rec.Source)
	if err != nil {
		return models.ShowRecord{}, fmt.Errorf("scan show: %w", err)
	}
	rec.Lineup = lineup
	rec.SearchIndex = index
	return rec, nil
}

func collectShows(rows *sql.Rows) ([]models.ShowRecord, error) {
	var shows []models.ShowRecord
	for rows.Next() {
		rec, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return shows, nil
}
