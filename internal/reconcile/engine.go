package reconcile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"showsync/internal/dates"
	"showsync/internal/models"
	"showsync/internal/store"
)

// Store defines the persistence operations the engine drives.
type Store interface {
	SnapshotShows(ctx context.Context) (map[string]models.ShowRecord, error)
	ApplyShows(ctx context.Context, upserts []models.ShowRecord, deletes []string, batchSize int, onCommit func(batch, size int)) error
}

// Engine reconciles normalized source records against the show collection.
type Engine struct {
	store     Store
	log       zerolog.Logger
	out       io.Writer
	batchSize int
}

// New constructs an Engine. out receives operator-facing plan previews and
// summaries; structured events go to the logger.
func New(st Store, log zerolog.Logger, out io.Writer, batchSize int) *Engine {
	if batchSize <= 0 {
		batchSize = store.BatchLimit
	}
	return &Engine{store: st, log: log, out: out, batchSize: batchSize}
}

// Run diffs the incoming records against a fresh store snapshot and, unless
// dryRun is set, applies the plan in sequential batches. The computed plan
// is returned either way. skipped is the normalization skip count, surfaced
// in the summary.
func (e *Engine) Run(ctx context.Context, incoming []models.ShowRecord, skipped int, dryRun bool) (models.Plan, error) {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()

	log.Info().Int("incoming", len(incoming)).Msg("fetching store snapshot")
	existing, err := e.store.SnapshotShows(ctx)
	if err != nil {
		return models.Plan{}, fmt.Errorf("read snapshot: %w", err)
	}

	plan := BuildPlan(incoming, existing)
	plan.Skipped = skipped
	e.printSummary(plan)

	if dryRun {
		e.preview(plan)
		fmt.Fprintln(e.out, "Dry run complete. No changes applied.")
		return plan, nil
	}

	if plan.Empty() {
		fmt.Fprintln(e.out, "Store already in sync. Nothing to do.")
		return plan, nil
	}

	if err := e.apply(ctx, log, plan); err != nil {
		return plan, err
	}
	fmt.Fprintln(e.out, "Store is in sync with the source file.")
	return plan, nil
}

// Replace wipes the show collection and repopulates it from the incoming
// set. Both phases run through the same bounded batch path.
func (e *Engine) Replace(ctx context.Context, incoming []models.ShowRecord, skipped int, dryRun bool) error {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()

	existing, err := e.store.SnapshotShows(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	fmt.Fprintf(e.out, "Replace: delete %d existing, insert %d from source (%d rows skipped)\n",
		len(existing), len(incoming), skipped)
	if dryRun {
		fmt.Fprintln(e.out, "Dry run complete. No changes applied.")
		return nil
	}

	deletes := make([]string, 0, len(existing))
	for id := range existing {
		deletes = append(deletes, id)
	}

	log.Warn().Int("deleting", len(deletes)).Msg("wiping show collection")
	if err := e.store.ApplyShows(ctx, nil, deletes, e.batchSize, e.onCommit(log, "delete")); err != nil {
		return fmt.Errorf("wipe shows: %w", err)
	}

	log.Info().Int("inserting", len(incoming)).Msg("repopulating show collection")
	if err := e.store.ApplyShows(ctx, incoming, nil, e.batchSize, e.onCommit(log, "insert")); err != nil {
		return fmt.Errorf("repopulate shows: %w", err)
	}

	fmt.Fprintln(e.out, "Show collection replaced from source file.")
	return nil
}

func (e *Engine) apply(ctx context.Context, log zerolog.Logger, plan models.Plan) error {
	upserts := make([]models.ShowRecord, 0, len(plan.Creates)+len(plan.Updates))
	upserts = append(upserts, plan.Creates...)
	upserts = append(upserts, plan.Updates...)

	if err := e.store.ApplyShows(ctx, upserts, plan.Deletes, e.batchSize, e.onCommit(log, "apply")); err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}

	log.Info().
		Int("creates", len(plan.Creates)).
		Int("updates", len(plan.Updates)).
		Int("deletes", len(plan.Deletes)).
		Msg("plan applied")
	return nil
}

func (e *Engine) onCommit(log zerolog.Logger, phase string) func(batch, size int) {
	return func(batch, size int) {
		log.Info().Str("phase", phase).Int("batch", batch).Int("ops", size).Msg("batch committed")
	}
}

func (e *Engine) printSummary(plan models.Plan) {
	fmt.Fprintf(e.out, "Summary: create %d, update %d, delete %d (%d rows skipped)\n",
		len(plan.Creates), len(plan.Updates), len(plan.Deletes), plan.Skipped)
}

func (e *Engine) preview(plan models.Plan) {
	for _, rec := range plan.Creates {
		fmt.Fprintf(e.out, "would create: %s\n", describe(rec))
	}
	for _, rec := range plan.Updates {
		fmt.Fprintf(e.out, "would update: %s\n", describe(rec))
	}
	for _, id := range plan.Deletes {
		fmt.Fprintf(e.out, "would delete orphan: %s\n", id)
	}
}

func describe(rec models.ShowRecord) string {
	return fmt.Sprintf("%s %s @ %s", dates.Day(rec.Date), strings.Join(rec.Lineup, ", "), rec.VenueCity)
}
