package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"holidaycal/internal/holiday"
)

// ExportOptions describes the calendar wrapper for an export.
type ExportOptions struct {
	// Name becomes X-WR-CALNAME.
	Name string
	// Stamp is written as DTSTAMP on every event. Zero means now.
	Stamp time.Time
}

// BuildHolidayCalendar renders generated events as an ICS calendar of
// all-day VEVENTs. UIDs reuse the event IDs so subscribers see stable
// identities across refreshes.
func BuildHolidayCalendar(events []holiday.Event, opts ExportOptions) *ical.Calendar {
	if opts.Name == "" {
		opts.Name = "US Holidays"
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//holidaycal//US Holidays//EN")
	cal.SetXWRCalName(opts.Name)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID + "@holidaycal")
		ve.SetDtStampTime(opts.Stamp.UTC())
		ve.SetSummary(ev.Title)
		ve.SetAllDayStartAt(ev.Date)
		ve.SetAllDayEndAt(ev.End())
		ve.SetProperty(ical.ComponentPropertyCategories, string(ev.Category))
		ve.SetProperty("TRANSP", "TRANSPARENT")
	}
	return cal
}

// WriteHolidayCalendar serializes BuildHolidayCalendar output to w.
func WriteHolidayCalendar(w io.Writer, events []holiday.Event, opts ExportOptions) error {
	_, err := io.WriteString(w, BuildHolidayCalendar(events, opts).Serialize())
	return err
}
