package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showsync/internal/dates"
	"showsync/internal/models"
	"showsync/internal/tokens"
)

func show(id, day string, lineup ...string) models.ShowRecord {
	date, _ := time.ParseInLocation(dates.ISODay, day, dates.Pacific())
	return models.ShowRecord{
		ID:          id,
		Date:        date,
		Venue:       "X Club",
		City:        "Portland",
		VenueCity:   "X Club, Portland",
		Lineup:      lineup,
		SearchIndex: tokens.Lineup(lineup),
		Source:      "CSV v1",
	}
}

func snapshot(recs ...models.ShowRecord) map[string]models.ShowRecord {
	m := make(map[string]models.ShowRecord, len(recs))
	for _, r := range recs {
		m[r.ID] = r
	}
	return m
}

func TestBuildPlanOrphanDetection(t *testing.T) {
	a := show("A", "2019-05-01", "Wizard")
	b := show("B", "2020-06-01", "Sleep")
	c := show("C", "2021-07-01", "Bell Witch")

	plan := BuildPlan([]models.ShowRecord{a, c}, snapshot(a, b, c))

	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Deletes, 1)
	assert.Equal(t, "B", plan.Deletes[0])
}

func TestBuildPlanCreates(t *testing.T) {
	a := show("A", "2019-05-01", "Wizard")
	plan := BuildPlan([]models.ShowRecord{a}, snapshot())

	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "A", plan.Creates[0].ID)
	assert.True(t, plan.Empty() == false && plan.Total() == 1)
}

func TestBuildPlanDetectsFieldChange(t *testing.T) {
	old := show("A", "2019-05-01", "Wizard")
	changed := show("A", "2019-05-01", "Wizard")
	changed.Venue = "Y Hall"
	changed.VenueCity = "Y Hall, Portland"

	plan := BuildPlan([]models.ShowRecord{changed}, snapshot(old))

	require.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Creates)
	assert.Empty(t, plan.Deletes)
}

func TestBuildPlanIgnoresSearchIndexOrder(t *testing.T) {
	old := show("A", "2019-05-01", "Wizard", "Sleep")
	// Simulate a stored index in a different order than a fresh regeneration.
	old.SearchIndex = []string{"wizard", "sleep"}
	fresh := show("A", "2019-05-01", "Wizard", "Sleep")

	plan := BuildPlan([]models.ShowRecord{fresh}, snapshot(old))
	assert.True(t, plan.Empty(), "derivable-field regeneration must not trigger updates")
}

func TestBuildPlanLineupOrderIsAChange(t *testing.T) {
	old := show("A", "2019-05-01", "Wizard", "Sleep")
	fresh := show("A", "2019-05-01", "Sleep", "Wizard")

	plan := BuildPlan([]models.ShowRecord{fresh}, snapshot(old))
	require.Len(t, plan.Updates, 1)
}

func TestBuildPlanIdempotent(t *testing.T) {
	a := show("A", "2019-05-01", "Wizard")
	b := show("B", "2020-06-01", "Sleep")
	incoming := []models.ShowRecord{a, b}

	first := BuildPlan(incoming, snapshot())
	require.Len(t, first.Creates, 2)

	// Apply the first plan by hand, then re-plan against the result.
	second := BuildPlan(incoming, snapshot(a, b))
	assert.True(t, second.Empty(), "second run over unchanged source must be empty")
}
