// Package scheduler keeps the store current: it regenerates the holiday
// overlay and re-fetches ICS subscriptions, on demand or on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"holidaycal/internal/config"
	"holidaycal/internal/holiday"
	"holidaycal/internal/ics"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/store"
)

// subscriptionWindow bounds how far from now subscription recurrences are
// expanded.
const (
	subscriptionBackfill = 31 * 24 * time.Hour
	subscriptionHorizon  = 366 * 24 * time.Hour
)

// Refresher recomputes store contents from config. RefreshAll is serialized
// so overlapping cron ticks and manual refreshes do not interleave.
type Refresher struct {
	cfg     *config.Config
	store   *store.Store
	fetcher *ics.Fetcher
	now     func() time.Time

	mu sync.Mutex
}

// NewRefresher wires a Refresher. A nil fetcher gets a default one using
// cfg.CacheDir.
func NewRefresher(cfg *config.Config, st *store.Store, fetcher *ics.Fetcher) *Refresher {
	if fetcher == nil {
		fetcher = ics.NewFetcher(cfg.CacheDir, nil)
	}
	return &Refresher{
		cfg:     cfg,
		store:   st,
		fetcher: fetcher,
		now:     time.Now,
	}
}

// WithClock replaces the time source used to pick the refresh window.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// HolidayOptions derives generator options from config for the current
// moment in the configured timezone.
func HolidayOptions(cfg *config.Config, now time.Time) holiday.Options {
	now = now.In(cfg.Location())
	opts := holiday.Options{
		Now:       now,
		StartYear: now.Year() - cfg.Holidays.YearsBack,
		EndYear:   now.Year() + cfg.Holidays.YearsAhead,
	}
	if !cfg.Holidays.IncludeObservances {
		opts.Categories = []holiday.Category{holiday.CategoryHoliday}
	}
	return opts
}

// RefreshHolidays regenerates the holiday overlay and returns its size.
func (r *Refresher) RefreshHolidays() int {
	if !r.cfg.Holidays.Enabled {
		r.store.ReplaceHolidays(nil)
		return 0
	}

	opts := HolidayOptions(r.cfg, r.now())
	events := holiday.Generate(opts)
	r.store.ReplaceHolidays(events)

	appLog.Info("holidays refreshed",
		"start_year", opts.StartYear,
		"end_year", opts.EndYear,
		"count", len(events),
	)
	return len(events)
}

// RefreshSubscriptions fetches, parses and expands every configured ICS
// source. A failing source keeps its previous occurrences in the store.
func (r *Refresher) RefreshSubscriptions(ctx context.Context) error {
	configured := make(map[string]bool, len(r.cfg.ICS))
	sources := make([]ics.Source, 0, len(r.cfg.ICS))
	for _, c := range r.cfg.ICS {
		if c.URL == "" {
			continue
		}
		id := c.SourceID()
		configured[id] = true
		sources = append(sources, ics.Source{ID: id, URL: c.URL})
	}

	for _, id := range r.store.SubscriptionIDs() {
		if !configured[id] {
			r.store.RemoveSubscription(id)
		}
	}
	if len(sources) == 0 {
		return nil
	}

	now := r.now()
	expandCfg := ics.ExpandConfig{
		DisplayLocation: r.cfg.Location(),
		RangeStart:      now.Add(-subscriptionBackfill),
		RangeEnd:        now.Add(subscriptionHorizon),
	}

	results, errs := r.fetcher.FetchAll(ctx, sources)
	for _, res := range results {
		parsed, err := ics.ParseICS(res.Source, res.Body)
		if err != nil {
			errs = append(errs, fmt.Errorf("ics: parse %s: %w", res.Source.ID, err))
			continue
		}
		expanded, err := ics.ExpandOccurrences(parsed, expandCfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("ics: expand %s: %w", res.Source.ID, err))
			continue
		}
		r.store.ReplaceSubscription(res.Source.ID, expanded.Occurrences)
		appLog.Info("subscription refreshed",
			"id", res.Source.ID,
			"occurrences", len(expanded.Occurrences),
			"from_cache", res.FromCache,
		)
	}

	return errors.Join(errs...)
}

// RefreshAll runs both refreshes.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.RefreshHolidays()
	if err := r.RefreshSubscriptions(ctx); err != nil {
		return fmt.Errorf("scheduler: refresh subscriptions: %w", err)
	}
	return nil
}
