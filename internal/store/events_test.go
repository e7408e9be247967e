package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestApprovedUpcomingEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE approved = TRUE AND event_date >= $1`)).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "headliner", "event_date", "venue", "city", "notes", "approved", "lineup_search",
		}).AddRow("ev1", "Wizard", eventDate, "W Hall", "Bend", "Opener1, Opener2", true, "{wizard}"))

	events, err := s.ApprovedUpcomingEvents(context.Background(), now)
	if err != nil {
		t.Fatalf("ApprovedUpcomingEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Headliner != "Wizard" || !ev.Approved || ev.Notes != "Opener1, Opener2" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
