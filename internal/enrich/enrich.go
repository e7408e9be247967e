// Package enrich regenerates derived search indexes in place: release
// indexes from the canonical artist fields, event indexes from the headliner
// and the acts named in the notes. Backfills are re-runnable; indexes are
// never hand-edited.
package enrich

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"showsync/internal/facts"
	"showsync/internal/models"
	"showsync/internal/store"
	"showsync/internal/tokens"
)

// Store defines the persistence operations backfills need.
type Store interface {
	SnapshotReleases(ctx context.Context) ([]models.ReleaseRecord, error)
	SnapshotEvents(ctx context.Context) ([]models.UpcomingEvent, error)
	UpdateReleaseSearch(ctx context.Context, updates []store.SearchIndexUpdate, batchSize int, onCommit func(batch, size int)) error
	UpdateEventSearch(ctx context.Context, updates []store.SearchIndexUpdate, batchSize int, onCommit func(batch, size int)) error
}

// Backfiller recomputes stored search indexes.
type Backfiller struct {
	store     Store
	log       zerolog.Logger
	out       io.Writer
	batchSize int
}

// New constructs a Backfiller.
func New(st Store, log zerolog.Logger, out io.Writer, batchSize int) *Backfiller {
	return &Backfiller{store: st, log: log, out: out, batchSize: batchSize}
}

// Releases rebuilds every release's search index from its artist plus the
// artist/location/title composite. Releases without an artist are skipped
// and counted.
func (b *Backfiller) Releases(ctx context.Context, dryRun bool) error {
	releases, err := b.store.SnapshotReleases(ctx)
	if err != nil {
		return err
	}

	var (
		updates []store.SearchIndexUpdate
		skipped int
	)
	for _, rel := range releases {
		if tokens.Normalize(rel.Artist) == "" {
			skipped++
			continue
		}
		index := tokens.Composite(rel.Artist, rel.Location, rel.Title)
		updates = append(updates, store.SearchIndexUpdate{ID: rel.ID, Index: index})
	}

	fmt.Fprintf(b.out, "Release backfill: %d indexes to rewrite (%d skipped)\n", len(updates), skipped)
	if dryRun {
		fmt.Fprintln(b.out, "Dry run complete. No changes applied.")
		return nil
	}

	if err := b.store.UpdateReleaseSearch(ctx, updates, b.batchSize, b.onCommit("releases")); err != nil {
		return fmt.Errorf("update release indexes: %w", err)
	}
	fmt.Fprintln(b.out, "Release search indexes rebuilt.")
	return nil
}

// Events rebuilds every event's search index from its headliner and the
// support acts parsed out of the notes.
func (b *Backfiller) Events(ctx context.Context, dryRun bool) error {
	events, err := b.store.SnapshotEvents(ctx)
	if err != nil {
		return err
	}

	updates := make([]store.SearchIndexUpdate, 0, len(events))
	for _, ev := range events {
		names := append([]string{ev.Headliner}, facts.ParseSupportActs(ev.Notes, ev.Headliner)...)
		updates = append(updates, store.SearchIndexUpdate{ID: ev.ID, Index: tokens.Lineup(names)})
	}

	fmt.Fprintf(b.out, "Event enrichment: %d indexes to rewrite\n", len(updates))
	if dryRun {
		fmt.Fprintln(b.out, "Dry run complete. No changes applied.")
		return nil
	}

	if err := b.store.UpdateEventSearch(ctx, updates, b.batchSize, b.onCommit("events")); err != nil {
		return fmt.Errorf("update event indexes: %w", err)
	}
	fmt.Fprintln(b.out, "Event search indexes rebuilt.")
	return nil
}

func (b *Backfiller) onCommit(phase string) func(batch, size int) {
	return func(batch, size int) {
		b.log.Info().Str("phase", phase).Int("batch", batch).Int("ops", size).Msg("batch committed")
	}
}
