package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"showsync/internal/models"
)

const releaseColumns = `id, artist, title, COALESCE(location, ''), date, band_search, embed, tags`

// MostRecentRelease returns the newest release whose search index contains
// the normalized term, or ErrReleaseNotFound.
func (s *Store) MostRecentRelease(ctx context.Context, term string) (*models.ReleaseRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+releaseColumns+`
		FROM releases
		WHERE band_search @> ARRAY[$1]::text[]
		ORDER BY date DESC
		LIMIT 1
	`, term)

	rec, err := scanRelease(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReleaseNotFound
		}
		return nil, fmt.Errorf("most recent release: %w", err)
	}
	return &rec, nil
}

// SnapshotReleases reads the entire release collection, for search-index
// backfills.
func (s *Store) SnapshotReleases(ctx context.Context) ([]models.ReleaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+releaseColumns+`
		FROM releases
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot releases: %w", err)
	}
	defer rows.Close()

	var releases []models.ReleaseRecord
	for rows.Next() {
		rec, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		releases = append(releases, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	return releases, nil
}

func scanRelease(r rowScanner) (models.ReleaseRecord, error) {
	var (
		rec   models.ReleaseRecord
		index pq.StringArray
		tags  pq.StringArray
	)
	err := r.Scan(&rec.ID, &rec.Artist, &rec.Title, &rec.Location, &rec.Date,
		&index, &rec.EmbedMarkup, &tags)
	if err != nil {
		return models.ReleaseRecord{}, err
	}
	rec.SearchIndex = index
	rec.Tags = tags
	return rec, nil
}
