package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"showsync/internal/logging"
	"showsync/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "showsync",
	Short: "Reconcile the show archive with its source file and build headliner facts",
	Long: `showsync keeps the concert document store in sync with the
authoritative source file, maintains the derived search indexes, and
aggregates per-event headliner facts for the narrative renderer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(importCmd, flaggedCmd, replaceCmd, hashgenCmd,
		backfillCmd, enrichCmd, factsCmd, validateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wiring every store-backed command needs. The store handle
// and logger are constructed once per invocation and passed down explicitly.
type app struct {
	cfg   Config
	db    *sql.DB
	store *store.Store
	log   zerolog.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL env var is required")
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, db: db, store: store.New(db), log: log}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}

// sourcePath resolves the source file for a command: flag value if given,
// configured default otherwise.
func (a *app) sourcePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.cfg.SourcePath
}
