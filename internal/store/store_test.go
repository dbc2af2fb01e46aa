package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaycal/internal/holiday"
	"holidaycal/internal/model"
)

func year(y int) (time.Time, time.Time) {
	return holiday.Date(y, time.January, 1), holiday.Date(y+1, time.January, 1)
}

func TestStore_HolidayRefreshReplacesSet(t *testing.T) {
	s := New()

	s.ReplaceHolidays(holiday.Generate(holiday.Options{StartYear: 2024, EndYear: 2025}))
	from, to := year(2024)
	first := s.Between(from, to)
	require.Len(t, first, len(holiday.Rules()))

	// A later refresh with a shifted window drops 2024 entirely.
	s.ReplaceHolidays(holiday.Generate(holiday.Options{StartYear: 2025, EndYear: 2026}))
	assert.Empty(t, s.Between(from, to))

	from, to = year(2025)
	assert.Len(t, s.Between(from, to), len(holiday.Rules()))
	assert.Equal(t, 2*len(holiday.Rules()), s.Stats().Holidays)
	assert.False(t, s.Stats().HolidaysRefreshed.IsZero())
}

func TestStore_RecomputeIsIdempotent(t *testing.T) {
	s := New()
	opts := holiday.Options{StartYear: 2024, EndYear: 2024}

	s.ReplaceHolidays(holiday.Generate(opts))
	from, to := year(2024)
	before := s.Between(from, to)

	s.ReplaceHolidays(holiday.Generate(opts))
	assert.Equal(t, before, s.Between(from, to))
}

func TestStore_UserEventsSurviveHolidayRefresh(t *testing.T) {
	s := New()
	s.ReplaceHolidays(holiday.Generate(holiday.Options{StartYear: 2024, EndYear: 2024}))

	got, err := s.Put(model.Entry{
		ID:     "dentist",
		Title:  "  Dentist  ",
		AllDay: true,
		Start:  time.Date(2024, time.July, 4, 15, 0, 0, 0, time.FixedZone("X", -7*3600)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, model.SourceUser, got.Source)
	assert.Equal(t, holiday.Date(2024, time.July, 4), got.Start)
	assert.Equal(t, holiday.Date(2024, time.July, 5), got.End)

	s.ReplaceHolidays(holiday.Generate(holiday.Options{StartYear: 2024, EndYear: 2024}))

	day := s.Between(holiday.Date(2024, time.July, 4), holiday.Date(2024, time.July, 5))
	require.Len(t, day, 2)
	assert.Equal(t, "Dentist", day[0].Title)
	assert.Equal(t, "🎆 Independence Day", day[1].Title)
}

func TestStore_PutValidation(t *testing.T) {
	s := New()
	start := holiday.Date(2024, time.March, 1).Add(9 * time.Hour)

	_, err := s.Put(model.Entry{Title: "x", Start: start})
	assert.Error(t, err)

	_, err = s.Put(model.Entry{ID: "a", Start: start})
	assert.Error(t, err)

	_, err = s.Put(model.Entry{ID: "a", Title: "x"})
	assert.Error(t, err)

	_, err = s.Put(model.Entry{ID: "a", Title: "x", Start: start, End: start.Add(-time.Hour)})
	assert.Error(t, err)

	id := holiday.EventID(holiday.Date(2024, time.July, 4), "Independence Day", holiday.CategoryHoliday)
	_, err = s.Put(model.Entry{ID: id, Title: "hijack", Start: start})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestStore_PutTimedWithoutEnd(t *testing.T) {
	s := New()
	start := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

	saved, err := s.Put(model.Entry{ID: "call", Title: "Call", Start: start})
	require.NoError(t, err)
	assert.Equal(t, start, saved.Start)
	assert.Equal(t, start, saved.End)

	got := s.Between(holiday.Date(2024, time.March, 2), holiday.Date(2024, time.March, 3))
	require.Len(t, got, 1)
	assert.Equal(t, "call", got[0].ID)

	_, err = s.Put(model.Entry{ID: "call", Title: "Call", Start: start, End: start.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	s := New()
	events := holiday.Generate(holiday.Options{StartYear: 2024, EndYear: 2024})
	s.ReplaceHolidays(events)
	s.ReplaceSubscription("team", []model.Occurrence{{
		SourceID: "team", UID: "u1", InstanceKey: "k",
		Summary: "Sync", Start: holiday.Date(2024, 3, 1), End: holiday.Date(2024, 3, 1).Add(time.Hour),
	}})

	_, err := s.Put(model.Entry{ID: "mine", Title: "Mine", Start: holiday.Date(2024, 3, 2)})
	require.NoError(t, err)

	require.NoError(t, s.Delete("mine"))
	_, ok := s.Get("mine")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Delete("mine"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(events[0].ID), ErrReadOnly)
	assert.ErrorIs(t, s.Delete("team/u1/k"), ErrReadOnly)
}

func TestStore_Subscriptions(t *testing.T) {
	s := New()
	occ := model.Occurrence{
		SourceID: "team", UID: "u1", InstanceKey: "k1", Summary: "Planning",
		Start: holiday.Date(2024, 5, 1).Add(10 * time.Hour),
		End:   holiday.Date(2024, 5, 1).Add(11 * time.Hour),
	}
	s.ReplaceSubscription("team", []model.Occurrence{occ})

	e, ok := s.Get("team/u1/k1")
	require.True(t, ok)
	assert.Equal(t, "ics:team", e.Source)
	assert.Equal(t, []string{"team"}, s.SubscriptionIDs())

	s.ReplaceSubscription("team", nil)
	_, ok = s.Get("team/u1/k1")
	assert.False(t, ok)

	s.RemoveSubscription("team")
	assert.Empty(t, s.SubscriptionIDs())
}

func TestStore_BetweenOrdering(t *testing.T) {
	s := New()
	base := holiday.Date(2024, 6, 1)
	for _, e := range []model.Entry{
		{ID: "c", Title: "Lunch", Start: base.Add(12 * time.Hour), End: base.Add(13 * time.Hour)},
		{ID: "b", Title: "Breakfast", Start: base.Add(8 * time.Hour), End: base.Add(9 * time.Hour)},
		{ID: "a", Title: "Anniversary", AllDay: true, Start: base},
	} {
		_, err := s.Put(e)
		require.NoError(t, err)
	}

	got := s.Between(base, base.AddDate(0, 0, 1))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	opts := holiday.Options{StartYear: 2024, EndYear: 2027}
	from, to := year(2025)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.ReplaceHolidays(holiday.Generate(opts))
		}()
		go func() {
			defer wg.Done()
			_ = s.Between(from, to)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Between(from, to), len(holiday.Rules()))
}
