package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"showsync/internal/models"
)

// upsertShow gives creates and updates identical semantics: re-running a
// plan against an already-applied store is a no-op, and a create racing a
// prior partial run cannot fail on a duplicate id.
const upsertShow = `
	INSERT INTO shows (id, date, venue, city, venue_city, event_name, lineup, lineup_search, source)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7::text[], $8::text[], $9)
	ON CONFLICT (id) DO UPDATE SET
		date = EXCLUDED.date,
		venue = EXCLUDED.venue,
		city = EXCLUDED.city,
		venue_city = EXCLUDED.venue_city,
		event_name = EXCLUDED.event_name,
		lineup = EXCLUDED.lineup,
		lineup_search = EXCLUDED.lineup_search,
		source = EXCLUDED.source
`

// showOp is one pending mutation: an upsert when record is set, otherwise a
// delete of the id.
type showOp struct {
	id     string
	record *models.ShowRecord
}

// ApplyShows executes upserts then deletes in transactions of at most
// batchSize statements. Batch k+1 is not started until batch k has
// committed, so an aborted run leaves a clean prefix applied. Deletes of
// absent ids are no-ops. onCommit, if non-nil, observes each committed
// batch.
func (s *Store) ApplyShows(ctx context.Context, upserts []models.ShowRecord, deletes []string, batchSize int, onCommit func(batch, size int)) error {
	if batchSize <= 0 || batchSize > BatchLimit {
		batchSize = BatchLimit
	}

	ops := make([]showOp, 0, len(upserts)+len(deletes))
	for i := range upserts {
		ops = append(ops, showOp{id: upserts[i].ID, record: &upserts[i]})
	}
	for _, id := range deletes {
		ops = append(ops, showOp{id: id})
	}

	for start := 0; start < len(ops); start += batchSize {
		end := start + batchSize
		if end > len(ops) {
			end = len(ops)
		}
		batch := start/batchSize + 1

		if err := s.commitShowBatch(ctx, ops[start:end]); err != nil {
			return fmt.Errorf("commit batch %d: %w", batch, err)
		}
		if onCommit != nil {
			onCommit(batch, end-start)
		}
	}
	return nil
}

func (s *Store) commitShowBatch(ctx context.Context, ops []showOp) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, op := range ops {
		if op.record != nil {
			rec := op.record
			_, err = tx.ExecContext(ctx, upsertShow,
				rec.ID, rec.Date, rec.Venue, rec.City, rec.VenueCity,
				rec.EventName, pq.Array(rec.Lineup), pq.Array(rec.SearchIndex), rec.Source)
			if err != nil {
				return fmt.Errorf("upsert show %s: %w", rec.ID, err)
			}
		} else {
			if _, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE id = $1`, op.id); err != nil {
				return fmt.Errorf("delete show %s: %w", op.id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}

// SearchIndexUpdate targets one document's derived search index.
type SearchIndexUpdate struct {
	ID    string
	Index []string
}

// UpdateReleaseSearch rewrites release search indexes through the batch
// path.
func (s *Store) UpdateReleaseSearch(ctx context.Context, updates []SearchIndexUpdate, batchSize int, onCommit func(batch, size int)) error {
	return s.updateSearch(ctx, `UPDATE releases SET band_search = $1::text[] WHERE id = $2`, updates, batchSize, onCommit)
}

// UpdateEventSearch rewrites event search indexes through the batch path.
func (s *Store) UpdateEventSearch(ctx context.Context, updates []SearchIndexUpdate, batchSize int, onCommit func(batch, size int)) error {
	return s.updateSearch(ctx, `UPDATE events SET lineup_search = $1::text[] WHERE id = $2`, updates, batchSize, onCommit)
}

func (s *Store) updateSearch(ctx context.Context, query string, updates []SearchIndexUpdate, batchSize int, onCommit func(batch, size int)) error {
	if batchSize <= 0 || batchSize > BatchLimit {
		batchSize = BatchLimit
	}

	for start := 0; start < len(updates); start += batchSize {
		end := start + batchSize
		if end > len(updates) {
			end = len(updates)
		}
		batch := start/batchSize + 1

		if err := s.commitSearchBatch(ctx, query, updates[start:end]); err != nil {
			return fmt.Errorf("commit batch %d: %w", batch, err)
		}
		if onCommit != nil {
			onCommit(batch, end-start)
		}
	}
	return nil
}

func (s *Store) commitSearchBatch(ctx context.Context, query string, updates []SearchIndexUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, pq.Array(u.Index), u.ID); err != nil {
			return fmt.Errorf("update search index %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}
