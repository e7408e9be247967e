package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"showsync/internal/archive"
	"showsync/internal/logging"
	"showsync/internal/reconcile"
)

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Diff the source file against the store and apply the plan",
	Long: `Normalize every source row, diff the result against a snapshot of
the show collection, and apply creates, updates, and orphan deletes in
bounded batches. Absence from the source file is deletion intent.

Examples:
  showsync import --dry-run
  showsync import --file data/show-archive.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		file, _ := cmd.Flags().GetString("file")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		path := a.sourcePath(file)
		table, err := archive.ReadTable(path)
		if err != nil {
			return err
		}
		records, skipped := archive.Records(table)
		if skipped > 0 {
			a.log.Warn().Int("skipped", skipped).Str("file", path).Msg("incomplete rows skipped")
		}

		engine := reconcile.New(a.store, a.log, os.Stdout, a.cfg.BatchSize)
		_, err = engine.Run(cmd.Context(), records, skipped, dryRun)
		return err
	},
}

// --- flagged ---

var flaggedCmd = &cobra.Command{
	Use:   "flagged",
	Short: "Sync only rows carrying Create/Update/Delete flags",
	Long: `Process source rows with an explicit CreateFlag, UpdateFlag, or
DeleteFlag set; unflagged rows pass through untouched. Live runs block on an
operator confirmation before committing, then rewrite the source file with
flags cleared and delete-flagged rows removed.

Examples:
  showsync flagged --dry-run
  showsync flagged`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		file, _ := cmd.Flags().GetString("file")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		path := a.sourcePath(file)
		table, err := archive.ReadTable(path)
		if err != nil {
			return err
		}

		engine := reconcile.New(a.store, a.log, os.Stdout, a.cfg.BatchSize)
		_, err = engine.FlaggedRun(cmd.Context(), table, path, os.Stdin, dryRun)
		return err
	},
}

// --- replace ---

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Wipe the show collection and repopulate it from the source file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		file, _ := cmd.Flags().GetString("file")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		path := a.sourcePath(file)
		table, err := archive.ReadTable(path)
		if err != nil {
			return err
		}
		records, skipped := archive.Records(table)

		engine := reconcile.New(a.store, a.log, os.Stdout, a.cfg.BatchSize)
		return engine.Replace(cmd.Context(), records, skipped, dryRun)
	},
}

// --- hashgen ---

var hashgenCmd = &cobra.Command{
	Use:   "hashgen",
	Short: "Fill in missing idHash cells and regenerate lineupSearch in the source file",
	Long: `Offline pass over the source file: computes idHash for rows that
are missing one and regenerates every lineupSearch cell from the band list.
The store is not touched; the file is rewritten in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		// No store access, so no database wiring.
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

		path := cfg.SourcePath
		if file != "" {
			path = file
		}
		table, err := archive.ReadTable(path)
		if err != nil {
			return err
		}
		table.EnsureColumn(archive.ColIDHash)
		table.EnsureColumn(archive.ColSearch)

		var changed, skipped int
		for _, row := range table.Rows {
			ok, err := archive.Stamp(row)
			if err != nil {
				skipped++
				continue
			}
			if ok {
				changed++
			}
		}

		if err := archive.WriteTable(path, table); err != nil {
			return err
		}
		log.Info().Int("changed", changed).Int("skipped", skipped).Str("file", path).
			Msg("hash generation complete")
		fmt.Printf("Stamped %d rows (%d skipped): %s\n", changed, skipped, path)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{importCmd, flaggedCmd, replaceCmd} {
		cmd.Flags().Bool("dry-run", false, "compute and print the plan without applying it")
		cmd.Flags().String("file", "", "source file path (defaults to SOURCE_CSV)")
	}
	hashgenCmd.Flags().String("file", "", "source file path (defaults to SOURCE_CSV)")
}
