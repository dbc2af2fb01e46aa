// Package store keeps the merged calendar: user events, ICS subscription
// occurrences and generated holidays. Holidays are never edited in place;
// each refresh replaces the whole set with fresh generator output.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"holidaycal/internal/holiday"
	"holidaycal/internal/model"
)

var (
	ErrNotFound = errors.New("store: entry not found")
	ErrReadOnly = errors.New("store: generated entries are read-only")
)

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	holidays      map[string]model.Entry
	subscriptions map[string]map[string]model.Entry // source ID -> entry ID -> entry
	user          map[string]model.Entry

	holidaysAt time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		holidays:      make(map[string]model.Entry),
		subscriptions: make(map[string]map[string]model.Entry),
		user:          make(map[string]model.Entry),
	}
}

// HolidayEntry converts a generated event into a merged-view entry.
func HolidayEntry(ev holiday.Event) model.Entry {
	return model.Entry{
		ID:       ev.ID,
		Source:   model.SourceHoliday,
		Title:    ev.Title,
		Category: string(ev.Category),
		AllDay:   true,
		Start:    ev.Date,
		End:      ev.End(),
	}
}

// ReplaceHolidays swaps the holiday set for events. Entries from a previous
// refresh that are absent from events disappear.
func (s *Store) ReplaceHolidays(events []holiday.Event) {
	next := make(map[string]model.Entry, len(events))
	for _, ev := range events {
		next[ev.ID] = HolidayEntry(ev)
	}

	s.mu.Lock()
	s.holidays = next
	s.holidaysAt = time.Now()
	s.mu.Unlock()
}

// ReplaceSubscription swaps all occurrences for one ICS source.
func (s *Store) ReplaceSubscription(sourceID string, occs []model.Occurrence) {
	next := make(map[string]model.Entry, len(occs))
	for _, o := range occs {
		e := o.Entry()
		next[e.ID] = e
	}

	s.mu.Lock()
	s.subscriptions[sourceID] = next
	s.mu.Unlock()
}

// RemoveSubscription drops a source that is no longer configured.
func (s *Store) RemoveSubscription(sourceID string) {
	s.mu.Lock()
	delete(s.subscriptions, sourceID)
	s.mu.Unlock()
}

// Put adds or replaces a user event. The entry's Source is forced to user.
// A timed event without an end is stored as zero-length at its start.
func (s *Store) Put(e model.Entry) (model.Entry, error) {
	e.ID = strings.TrimSpace(e.ID)
	e.Title = strings.TrimSpace(e.Title)
	switch {
	case e.ID == "":
		return model.Entry{}, errors.New("store: id is required")
	case e.Title == "":
		return model.Entry{}, errors.New("store: title is required")
	case e.Start.IsZero():
		return model.Entry{}, errors.New("store: start is required")
	case strings.HasPrefix(e.ID, holiday.Source+"-"):
		return model.Entry{}, fmt.Errorf("%w: %s", ErrReadOnly, e.ID)
	}

	if e.AllDay {
		y, m, d := e.Start.Date()
		e.Start = holiday.Date(y, m, d)
		if !e.End.After(e.Start) {
			e.End = e.Start.AddDate(0, 0, 1)
		} else {
			ey, em, ed := e.End.Date()
			e.End = holiday.Date(ey, em, ed)
		}
	} else if e.End.IsZero() {
		e.End = e.Start
	} else if e.End.Before(e.Start) {
		return model.Entry{}, errors.New("store: end is before start")
	}
	e.Source = model.SourceUser

	s.mu.Lock()
	s.user[e.ID] = e
	s.mu.Unlock()
	return e, nil
}

// Delete removes a user event.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.user[id]; ok {
		delete(s.user, id)
		return nil
	}
	if _, ok := s.holidays[id]; ok {
		return fmt.Errorf("%w: %s", ErrReadOnly, id)
	}
	for _, sub := range s.subscriptions {
		if _, ok := sub[id]; ok {
			return fmt.Errorf("%w: %s", ErrReadOnly, id)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Get looks up an entry by ID in the merged view.
func (s *Store) Get(id string) (model.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.user[id]; ok {
		return e, true
	}
	for _, sub := range s.subscriptions {
		if e, ok := sub[id]; ok {
			return e, true
		}
	}
	e, ok := s.holidays[id]
	return e, ok
}

// Between returns the merged view of entries overlapping [from, to), ordered
// by start then title. On ID collisions user events win over subscription
// occurrences, which win over holidays.
func (s *Store) Between(from, to time.Time) []model.Entry {
	s.mu.RLock()
	merged := make(map[string]model.Entry, len(s.holidays)+len(s.user))
	for id, e := range s.holidays {
		merged[id] = e
	}
	for _, src := range sortedKeys(s.subscriptions) {
		for id, e := range s.subscriptions[src] {
			merged[id] = e
		}
	}
	for id, e := range s.user {
		merged[id] = e
	}
	s.mu.RUnlock()

	out := make([]model.Entry, 0, len(merged))
	for _, e := range merged {
		if e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b model.Entry) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Stats summarizes store contents.
type Stats struct {
	Holidays           int       `json:"holidays"`
	User               int       `json:"user"`
	Subscriptions      int       `json:"subscriptions"`
	SubscriptionEvents int       `json:"subscription_events"`
	HolidaysRefreshed  time.Time `json:"holidays_refreshed"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Holidays:          len(s.holidays),
		User:              len(s.user),
		Subscriptions:     len(s.subscriptions),
		HolidaysRefreshed: s.holidaysAt,
	}
	for _, sub := range s.subscriptions {
		st.SubscriptionEvents += len(sub)
	}
	return st
}

// SubscriptionIDs lists the sources currently held, sorted.
func (s *Store) SubscriptionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.subscriptions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
