package model

import "time"

// Entry sources. Subscription entries use "ics:<source id>".
const (
	SourceHoliday = "holiday"
	SourceUser    = "user"
	sourceICS     = "ics:"
)

// ICSSource returns the Entry.Source value for an ICS subscription.
func ICSSource(sourceID string) string {
	return sourceICS + sourceID
}

// Entry is one item in the merged calendar view: a generated holiday, a
// user-entered event, or an occurrence from an ICS subscription.
type Entry struct {
	ID     string `json:"id"`
	Source string `json:"source"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	// Category is "Holiday" or "Observance" for generated entries and free
	// form (possibly empty) otherwise.
	Category string `json:"category,omitempty"`

	AllDay bool `json:"all_day"`

	// All-day entries span [midnight, next midnight) in UTC.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the entry intersects [from, to).
func (e Entry) Overlaps(from, to time.Time) bool {
	end := e.End
	if !end.After(e.Start) {
		// Zero-length entries still occupy their start instant.
		return !e.Start.Before(from) && e.Start.Before(to)
	}
	return e.Start.Before(to) && end.After(from)
}

// Occurrence represents a single concrete instance of an ICS event
// (after recurrence expansion and timezone normalization).
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, derived from the local start time.
	InstanceKey string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}

// Entry converts the occurrence to a merged-view entry. The ID combines
// source, UID and instance so every occurrence is addressable.
func (o Occurrence) Entry() Entry {
	return Entry{
		ID:          o.SourceID + "/" + o.UID + "/" + o.InstanceKey,
		Source:      ICSSource(o.SourceID),
		Title:       o.Summary,
		Description: o.Description,
		Location:    o.Location,
		AllDay:      o.AllDay,
		Start:       o.Start,
		End:         o.End,
	}
}
