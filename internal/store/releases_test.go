package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func releaseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "artist", "title", "location", "date", "band_search", "embed", "tags",
	})
}

func TestMostRecentRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE band_search @> ARRAY[$1]::text[]`)).
		WithArgs("wizard").
		WillReturnRows(releaseRows().
			AddRow("r1", "Wizard", "Doom Ritual", "Portland", date, "{wizard}", `<a href="u">u</a>`, "{doom}"))

	rec, err := s.MostRecentRelease(context.Background(), "wizard")
	if err != nil {
		t.Fatalf("MostRecentRelease: %v", err)
	}
	if rec.Title != "Doom Ritual" || rec.Artist != "Wizard" {
		t.Fatalf("unexpected release: %+v", rec)
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "doom" {
		t.Fatalf("tags = %v", rec.Tags)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMostRecentReleaseNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE band_search @> ARRAY[$1]::text[]`)).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err = s.MostRecentRelease(context.Background(), "nobody")
	if !errors.Is(err, ErrReleaseNotFound) {
		t.Fatalf("expected ErrReleaseNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSnapshotReleases(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	date := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM releases`)).
		WillReturnRows(releaseRows().
			AddRow("r1", "Wizard", "Doom Ritual", "", date, "{wizard}", "<a></a>", nil).
			AddRow("r2", "Sleep", "Dopesmoker", "", date, "{sleep}", "<a></a>", nil))

	releases, err := s.SnapshotReleases(context.Background())
	if err != nil {
		t.Fatalf("SnapshotReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
