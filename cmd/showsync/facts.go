package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"showsync/internal/dates"
	"showsync/internal/enrich"
	"showsync/internal/facts"
)

// --- facts ---

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Aggregate headliner facts for every approved upcoming event",
	Long: `For each approved future event, query the search indexes for the
headliner's prior shows, most recent release, and shared bills with the
current support acts, and write the result as JSON for the narrative
renderer.

Examples:
  showsync facts
  showsync facts --out headlinerFacts.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if out == "" {
			out = a.cfg.FactsPath
		}

		agg := facts.New(a.store, a.log)
		result, err := agg.Aggregate(cmd.Context())
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode facts: %w", err)
		}
		if err := os.WriteFile(out, encoded, 0o644); err != nil {
			return fmt.Errorf("write facts: %w", err)
		}

		a.log.Info().Int("events", len(result)).Str("file", out).Msg("headliner facts written")
		fmt.Printf("Headliner facts for %d events written to %s\n", len(result), out)
		return nil
	},
}

// --- backfill ---

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild release search indexes from canonical artist fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		b := enrich.New(a.store, a.log, os.Stdout, a.cfg.BatchSize)
		return b.Releases(cmd.Context(), dryRun)
	},
}

// --- enrich ---

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Rebuild event search indexes from headliner and notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		b := enrich.New(a.store, a.log, os.Stdout, a.cfg.BatchSize)
		return b.Events(cmd.Context(), dryRun)
	},
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Read-only health check of the show collection",
	Long: `Reports the total show count and probes the search index for the
given terms. No writes are made.

Example:
  showsync validate --terms "fluid druid,kinghorn,mammoth salmon"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		termsFlag, _ := cmd.Flags().GetString("terms")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		total, err := a.store.CountShows(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Total show documents: %d\n", total)

		for _, term := range strings.Split(termsFlag, ",") {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			matches, err := a.store.ProbeTerm(ctx, term, 5)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Printf("NOT FOUND in search index: %s\n", term)
				continue
			}
			fmt.Printf("Found %d+ entries for: %s\n", len(matches), term)
			for _, rec := range matches {
				fmt.Printf("  - %s @ %s\n", dates.Day(rec.Date), rec.VenueCity)
			}
		}
		return nil
	},
}

func init() {
	factsCmd.Flags().String("out", "", "output path for the facts JSON (defaults to FACTS_OUT)")
	backfillCmd.Flags().Bool("dry-run", false, "report the rewrite count without applying it")
	enrichCmd.Flags().Bool("dry-run", false, "report the rewrite count without applying it")
	validateCmd.Flags().String("terms", "", "comma-separated search terms to probe")
}
