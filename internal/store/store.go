// Package store persists the archive's collections in Postgres. Search
// indexes live in text[] columns so token lookups stay a single indexed
// predicate, and every mutation flows through the chunked batch path in
// batch.go rather than ad hoc single-document writes.
package store

import (
	"database/sql"
	"errors"
)

// ErrReleaseNotFound indicates no release matched the search term.
var ErrReleaseNotFound = errors.New("release not found")

// BatchLimit is the store's atomic-batch ceiling. Mutation runs are split
// into transactions of at most this many statements, committed strictly in
// order.
const BatchLimit = 500

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
