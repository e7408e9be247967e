package reconcile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"showsync/internal/archive"
	"showsync/internal/identity"
	"showsync/internal/models"
)

// FlaggedResult summarizes a flagged-row sync run.
type FlaggedResult struct {
	Creates   int
	Updates   int
	Deletes   int
	Skipped   int
	Committed bool
}

// FlaggedRun processes only rows carrying an explicit Create/Update/Delete
// flag; unflagged rows pass through untouched. In live mode the commit is
// gated on an operator confirmation read from confirm, and after a
// successful commit the source file at path is rewritten with flags cleared
// and delete-flagged rows removed. The rewrite only happens once the store
// commit has succeeded.
func (e *Engine) FlaggedRun(ctx context.Context, table *archive.Table, path string, confirm io.Reader, dryRun bool) (FlaggedResult, error) {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()

	var (
		res     FlaggedResult
		creates []models.ShowRecord
		updates []models.ShowRecord
		deletes []string
	)

	for _, row := range table.Rows {
		create := row.Flagged(archive.ColCreateFlag)
		update := row.Flagged(archive.ColUpdateFlag)
		del := row.Flagged(archive.ColDeleteFlag)
		if !create && !update && !del {
			continue
		}

		// Fill in a missing id so the rewritten file keeps it.
		if row.Get(archive.ColIDHash) == "" {
			id, err := identity.Hash(row.Get(archive.ColDate),
				archive.SplitLineup(row.Get(archive.ColBands)),
				row.Get(archive.ColVenue), row.Get(archive.ColCity))
			if err != nil {
				log.Warn().Err(err).Str("date", row.Get(archive.ColDate)).Msg("skipping flagged row")
				res.Skipped++
				continue
			}
			row[archive.ColIDHash] = id
		}

		// Flag precedence on a multi-flagged row: create, then update,
		// then delete.
		if !create && !update {
			deletes = append(deletes, row.Get(archive.ColIDHash))
			continue
		}

		rec, err := archive.NormalizeRow(row)
		if err != nil {
			log.Warn().Err(err).Str("date", row.Get(archive.ColDate)).Msg("skipping flagged row")
			res.Skipped++
			continue
		}

		// Refresh the cached search-index cell for the rewrite.
		if encoded, err := json.Marshal(rec.SearchIndex); err == nil {
			row[archive.ColSearch] = string(encoded)
		}

		if create {
			creates = append(creates, rec)
		} else {
			updates = append(updates, rec)
		}
	}

	res.Creates = len(creates)
	res.Updates = len(updates)
	res.Deletes = len(deletes)

	fmt.Fprintf(e.out, "Summary: create %d, update %d, delete %d (%d rows skipped)\n",
		res.Creates, res.Updates, res.Deletes, res.Skipped)

	if dryRun {
		for _, rec := range creates {
			fmt.Fprintf(e.out, "would create: %s\n", describe(rec))
		}
		for _, rec := range updates {
			fmt.Fprintf(e.out, "would update: %s\n", describe(rec))
		}
		for _, id := range deletes {
			fmt.Fprintf(e.out, "would delete: %s\n", id)
		}
		fmt.Fprintln(e.out, "Dry run complete. No changes applied.")
		return res, nil
	}

	if res.Creates+res.Updates+res.Deletes == 0 {
		fmt.Fprintln(e.out, "No flagged rows. Nothing to do.")
		return res, nil
	}

	if !e.confirmed(confirm) {
		fmt.Fprintln(e.out, "Aborted. No changes applied.")
		return res, nil
	}

	upserts := append(append([]models.ShowRecord(nil), creates...), updates...)
	if err := e.store.ApplyShows(ctx, upserts, deletes, e.batchSize, e.onCommit(log, "flagged")); err != nil {
		return res, fmt.Errorf("apply flagged rows: %w", err)
	}
	res.Committed = true
	log.Info().Int("creates", res.Creates).Int("updates", res.Updates).Int("deletes", res.Deletes).
		Msg("flagged plan applied")

	if err := rewriteSource(table, path); err != nil {
		// The store commit has already landed; a re-run is safe because
		// creates and updates are idempotent and deletes of absent ids
		// are no-ops.
		return res, fmt.Errorf("rewrite source after commit: %w", err)
	}
	fmt.Fprintf(e.out, "Source file updated: %s\n", path)
	return res, nil
}

// confirmed blocks on the operator's choice: 1 commits, anything else
// aborts.
func (e *Engine) confirmed(in io.Reader) bool {
	fmt.Fprint(e.out, "Proceed with commit? (1 = Commit, 2 = Abort): ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	return strings.TrimSpace(scanner.Text()) == "1"
}

// rewriteSource clears processed flags and drops rows that resolved as
// deletes, preserving column order. A delete flag overridden by a create or
// update flag keeps its row.
func rewriteSource(table *archive.Table, path string) error {
	kept := make([]archive.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row.Flagged(archive.ColDeleteFlag) &&
			!row.Flagged(archive.ColCreateFlag) && !row.Flagged(archive.ColUpdateFlag) {
			continue
		}
		row[archive.ColCreateFlag] = ""
		row[archive.ColUpdateFlag] = ""
		row[archive.ColDeleteFlag] = ""
		kept = append(kept, row)
	}
	table.Rows = kept
	return archive.WriteTable(path, table)
}
