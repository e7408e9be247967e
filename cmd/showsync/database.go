package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Commands are one-shot, so connection probing is bounded to a few quick
// attempts instead of a server-style readiness wait.
const (
	dbPingTimeout  = 5 * time.Second
	dbPingAttempts = 4
	dbPingBackoff  = 500 * time.Millisecond
)

// openDatabase opens a pgx-backed pool and verifies the instance answers
// before any command touches it.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)

	backoff := dbPingBackoff
	var lastErr error
	for attempt := 1; attempt <= dbPingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil || attempt == dbPingAttempts {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
