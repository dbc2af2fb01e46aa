// Package holiday generates US federal holidays and popular observances as
// synthetic all-day calendar events.
//
// Generate is pure: the same Options always yield the same events with the
// same IDs, so callers can recompute on every refresh and merge by ID.
package holiday

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Source tags every generated event so consumers can tell it apart from
// user-entered entries.
const Source = "holiday"

// idNamespace scopes the UUIDv5 event IDs to this generator.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:holidaycal:holiday"))

// Event is a single generated holiday or observance.
type Event struct {
	// ID is derived from (date, name, category) only.
	ID string `json:"id"`
	// Title is Name decorated with Emoji.
	Title    string    `json:"title"`
	Name     string    `json:"name"`
	Emoji    string    `json:"emoji"`
	Date     time.Time `json:"date"`
	Category Category  `json:"category"`
	Source   string    `json:"source"`
	AllDay   bool      `json:"all_day"`
}

// End is the exclusive end of the all-day event (the following midnight UTC).
func (e Event) End() time.Time {
	return e.Date.AddDate(0, 0, 1)
}

// DateString formats the calendar day as YYYY-MM-DD.
func (e Event) DateString() string {
	return e.Date.Format(time.DateOnly)
}

// Options controls Generate. Zero values select the defaults.
type Options struct {
	// Now anchors the default year window. Zero means time.Now().
	Now time.Time
	// StartYear and EndYear bound the inclusive year range. Zero means
	// Now.Year()-1 and Now.Year()+2 respectively.
	StartYear int
	EndYear   int
	// Categories restricts the output; empty means every category.
	Categories []Category
}

// DefaultYearsBack and DefaultYearsAhead define the rolling window used when
// no explicit range is given.
const (
	DefaultYearsBack  = 1
	DefaultYearsAhead = 2
)

// YearRange resolves the effective inclusive year range.
func (o Options) YearRange() (start, end int) {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, end = o.StartYear, o.EndYear
	if start == 0 {
		start = now.Year() - DefaultYearsBack
	}
	if end == 0 {
		end = now.Year() + DefaultYearsAhead
	}
	return start, end
}

func (o Options) includes(c Category) bool {
	return len(o.Categories) == 0 || slices.Contains(o.Categories, c)
}

// Generate evaluates every rule for every year in the range and returns the
// resulting events ordered by date. Dates that resolve outside the range are
// dropped and duplicate IDs are collapsed to one entry. An inverted range
// yields an empty, non-nil slice.
func Generate(opts Options) []Event {
	return generate(Rules(), opts)
}

func generate(rules []Rule, opts Options) []Event {
	start, end := opts.YearRange()
	if end < start {
		return []Event{}
	}

	out := make([]Event, 0, (end-start+1)*len(rules))
	for year := start; year <= end; year++ {
		for _, r := range rules {
			if !opts.includes(r.Category) {
				continue
			}
			d := r.When.On(year)
			if d.Year() < start || d.Year() > end {
				continue
			}
			out = append(out, NewEvent(r.Title, r.Category, d))
		}
	}

	out = dedupe(out)
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// NewEvent builds a decorated all-day event for the given day.
func NewEvent(name string, category Category, day time.Time) Event {
	day = Date(day.Year(), day.Month(), day.Day())
	emoji := EmojiFor(name)
	return Event{
		ID:       EventID(day, name, category),
		Title:    emoji + " " + name,
		Name:     name,
		Emoji:    emoji,
		Date:     day,
		Category: category,
		Source:   Source,
		AllDay:   true,
	}
}

// EventID derives the stable identifier for a (date, name, category) triple.
func EventID(day time.Time, name string, category Category) string {
	key := day.Format(time.DateOnly) + "|" + name + "|" + string(category)
	return Source + "-" + uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func dedupe(events []Event) []Event {
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, ev := range events {
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		seen[ev.ID] = struct{}{}
		out = append(out, ev)
	}
	return out
}
