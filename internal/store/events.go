package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"showsync/internal/models"
)

const eventColumns = `id, headliner, event_date, venue, city, COALESCE(notes, ''), approved, lineup_search`

// ApprovedUpcomingEvents returns approved events dated now or later, soonest
// first. The events collection is read-only from the pipeline's perspective
// except for search-index enrichment.
func (s *Store) ApprovedUpcomingEvents(ctx context.Context, now time.Time) ([]models.UpcomingEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE approved = TRUE AND event_date >= $1
		ORDER BY event_date ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("approved upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// SnapshotEvents reads the entire events collection, for search-index
// enrichment.
func (s *Store) SnapshotEvents(ctx context.Context) ([]models.UpcomingEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY event_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]models.UpcomingEvent, error) {
	var events []models.UpcomingEvent
	for rows.Next() {
		var (
			ev    models.UpcomingEvent
			index pq.StringArray
		)
		err := rows.Scan(&ev.ID, &ev.Headliner, &ev.EventDate, &ev.Venue,
			&ev.City, &ev.Notes, &ev.Approved, &index)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.SearchIndex = index
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
