package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"showsync/internal/models"
)

func TestApplyShowsChunksBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// 1,250 pending deletes with a 500-op ceiling must commit exactly three
	// batches sized 500/500/250.
	deletes := make([]string, 1250)
	for i := range deletes {
		deletes[i] = fmt.Sprintf("id%04d", i)
	}

	for _, size := range []int{500, 500, 250} {
		mock.ExpectBegin()
		for i := 0; i < size; i++ {
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shows WHERE id = $1`)).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()
	}

	var committed []int
	err = s.ApplyShows(context.Background(), nil, deletes, 500, func(batch, size int) {
		committed = append(committed, size)
	})
	if err != nil {
		t.Fatalf("ApplyShows: %v", err)
	}

	if len(committed) != 3 || committed[0] != 500 || committed[1] != 500 || committed[2] != 250 {
		t.Fatalf("batch sizes = %v, want [500 500 250]", committed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyShowsUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	rec := models.ShowRecord{
		ID:          "A",
		Date:        time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
		Venue:       "X Club",
		City:        "Portland",
		VenueCity:   "X Club, Portland",
		Lineup:      []string{"Wizard", "Sleep"},
		SearchIndex: []string{"sleep", "wizard"},
		Source:      "CSV v1",
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shows`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.ApplyShows(context.Background(), []models.ShowRecord{rec}, nil, 500, nil); err != nil {
		t.Fatalf("ApplyShows: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyShowsEmptyPlanIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	if err := s.ApplyShows(context.Background(), nil, nil, 500, nil); err != nil {
		t.Fatalf("ApplyShows: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyShowsAbortsOnBatchFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shows WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shows WHERE id = $1`)).
		WillReturnError(boom)
	mock.ExpectRollback()

	var committed int
	err = s.ApplyShows(context.Background(), nil, []string{"A", "B"}, 1, func(batch, size int) {
		committed++
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped batch error, got %v", err)
	}
	if committed != 1 {
		t.Fatalf("expected exactly the first batch committed, got %d", committed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateReleaseSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE releases SET band_search = $1::text[] WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updates := []SearchIndexUpdate{{ID: "r1", Index: []string{"wizard"}}}
	if err := s.UpdateReleaseSearch(context.Background(), updates, 500, nil); err != nil {
		t.Fatalf("UpdateReleaseSearch: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
