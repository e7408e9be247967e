// Package facts builds per-event headliner summaries by aggregating across
// the show, release, and event collections: prior performance history, most
// recent release, and shared-bill history with the current support acts.
// Facts are rebuilt from current store state on every run, never mutated in
// place.
package facts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"showsync/internal/dates"
	"showsync/internal/models"
	"showsync/internal/store"
	"showsync/internal/tokens"
)

// maxSupportTerms bounds shared-show query fan-out: the headliner plus at
// most this many support-act terms.
const maxSupportTerms = 10

// Store defines the queries the aggregator runs.
type Store interface {
	ShowsByTerm(ctx context.Context, term string) ([]models.ShowRecord, error)
	ShowsByAnyTerm(ctx context.Context, terms []string) ([]models.ShowRecord, error)
	MostRecentRelease(ctx context.Context, term string) (*models.ReleaseRecord, error)
	ApprovedUpcomingEvents(ctx context.Context, now time.Time) ([]models.UpcomingEvent, error)
}

// Aggregator answers "what has this act done before, and with whom".
type Aggregator struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// New constructs an Aggregator.
func New(st Store, log zerolog.Logger) *Aggregator {
	return &Aggregator{store: st, log: log, now: time.Now}
}

// Aggregate builds one HeadlinerFact per approved future event.
func (a *Aggregator) Aggregate(ctx context.Context) ([]models.HeadlinerFact, error) {
	events, err := a.store.ApprovedUpcomingEvents(ctx, a.now())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	facts := make([]models.HeadlinerFact, 0, len(events))
	for _, ev := range events {
		fact, err := a.eventFact(ctx, ev)
		if err != nil {
			return nil, fmt.Errorf("aggregate event %s: %w", ev.ID, err)
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

func (a *Aggregator) eventFact(ctx context.Context, ev models.UpcomingEvent) (models.HeadlinerFact, error) {
	eventDay := dates.Day(ev.EventDate)
	supportActs := ParseSupportActs(ev.Notes, ev.Headliner)

	allShows, earliestYear, err := a.PastShows(ctx, ev.Headliner, eventDay)
	if err != nil {
		return models.HeadlinerFact{}, err
	}

	release, err := a.MostRecentRelease(ctx, ev.Headliner)
	if err != nil {
		return models.HeadlinerFact{}, err
	}

	shared, err := a.SharedShows(ctx, ev.Headliner, supportActs)
	if err != nil {
		return models.HeadlinerFact{}, err
	}

	a.log.Debug().
		Str("headliner", ev.Headliner).
		Int("past_shows", len(allShows)).
		Int("shared_shows", len(shared)).
		Msg("event aggregated")

	return models.HeadlinerFact{
		EventID:     ev.ID,
		Headliner:   ev.Headliner,
		EventDate:   eventDay,
		Venue:       ev.Venue,
		City:        ev.City,
		SupportActs: supportActs,
		Notes:       strings.TrimSpace(ev.Notes),
		Stats: models.FactStats{
			TotalPastShows:    len(allShows),
			AllShows:          allShows,
			EarliestYear:      earliestYear,
			MostRecentRelease: release,
			SharedShows:       shared,
		},
	}, nil
}

// PastShows returns the headliner's documented history newest first,
// excluding any show on excludeDay (the event being described must not count
// as its own history), plus the earliest year across the list.
func (a *Aggregator) PastShows(ctx context.Context, headliner, excludeDay string) ([]models.PastShow, int, error) {
	records, err := a.store.ShowsByTerm(ctx, tokens.Normalize(headliner))
	if err != nil {
		return nil, 0, fmt.Errorf("past shows: %w", err)
	}

	shows := make([]models.PastShow, 0, len(records))
	earliest := 0
	for _, rec := range records {
		day := dates.Day(rec.Date)
		if day == excludeDay {
			continue
		}
		shows = append(shows, models.PastShow{
			Date:   day,
			Venue:  rec.Venue,
			City:   rec.City,
			Lineup: rec.Lineup,
		})
		if y := dates.Year(day); earliest == 0 || y < earliest {
			earliest = y
		}
	}
	return shows, earliest, nil
}

var hrefPattern = regexp.MustCompile(`href="(.*?)"`)

// MostRecentRelease summarizes the headliner's newest release, or returns
// nil when none is indexed.
func (a *Aggregator) MostRecentRelease(ctx context.Context, headliner string) (*models.ReleaseSummary, error) {
	rec, err := a.store.MostRecentRelease(ctx, tokens.Normalize(headliner))
	if err != nil {
		if errors.Is(err, store.ErrReleaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("most recent release: %w", err)
	}

	return &models.ReleaseSummary{
		Title:     rec.Title,
		MonthYear: rec.Date.In(dates.Pacific()).Format("January 2006"),
		URL:       extractHref(rec.EmbedMarkup),
	}, nil
}

// SharedShows finds historical shows where the headliner and at least one of
// the current support acts shared the bill. Only shows strictly before today
// (Pacific) qualify; the reported support act is the first one in notes
// order found on the bill.
func (a *Aggregator) SharedShows(ctx context.Context, headliner string, supportActs []string) ([]models.SharedShow, error) {
	if len(supportActs) == 0 {
		return nil, nil
	}

	headlinerNorm := tokens.Normalize(headliner)
	terms := []string{headlinerNorm}
	seen := map[string]struct{}{headlinerNorm: {}}
	for _, act := range supportActs {
		norm := tokens.Normalize(act)
		if _, dup := seen[norm]; dup || len(terms) > maxSupportTerms {
			continue
		}
		seen[norm] = struct{}{}
		terms = append(terms, norm)
	}

	records, err := a.store.ShowsByAnyTerm(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("shared shows: %w", err)
	}

	today := dates.Day(a.now())
	var shared []models.SharedShow
	for _, rec := range records {
		day := dates.Day(rec.Date)
		if day >= today || !tokens.Contains(rec.SearchIndex, headlinerNorm) {
			continue
		}
		for _, act := range supportActs {
			if tokens.Contains(rec.SearchIndex, act) {
				shared = append(shared, models.SharedShow{
					SupportAct: act,
					Date:       day,
					Venue:      rec.Venue,
					City:       rec.City,
				})
				break
			}
		}
	}
	return shared, nil
}

func extractHref(embed string) string {
	if m := hrefPattern.FindStringSubmatch(embed); m != nil {
		return m[1]
	}
	return ""
}
