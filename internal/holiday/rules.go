package holiday

import (
	"fmt"
	"strings"
	"time"
)

// Category separates US federal holidays from informal observances.
type Category string

const (
	CategoryHoliday    Category = "Holiday"
	CategoryObservance Category = "Observance"
)

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch {
	case strings.EqualFold(s, string(CategoryHoliday)):
		return CategoryHoliday, nil
	case strings.EqualFold(s, string(CategoryObservance)):
		return CategoryObservance, nil
	default:
		return "", fmt.Errorf("holiday: unknown category %q", s)
	}
}

// When resolves a rule to a concrete calendar date for a year.
type When interface {
	On(year int) time.Time
	String() string
}

// Rule ties a title and category to a date strategy.
type Rule struct {
	Title    string
	Category Category
	When     When
}

type fixedDate struct {
	month time.Month
	day   int
}

// Fixed is a rule on the same month and day every year.
func Fixed(month time.Month, day int) When { return fixedDate{month, day} }

func (f fixedDate) On(year int) time.Time { return Date(year, f.month, f.day) }
func (f fixedDate) String() string        { return fmt.Sprintf("%s %d", f.month, f.day) }

type nthWeekday struct {
	month   time.Month
	weekday time.Weekday
	n       int
}

// NthWeekday is a floating rule such as "4th Thursday of November".
func NthWeekday(month time.Month, weekday time.Weekday, n int) When {
	return nthWeekday{month, weekday, n}
}

func (r nthWeekday) On(year int) time.Time {
	return NthWeekdayOfMonth(year, r.month, r.weekday, r.n)
}

func (r nthWeekday) String() string {
	return fmt.Sprintf("%s %s of %s", ordinal(r.n), r.weekday, r.month)
}

type lastWeekday struct {
	month   time.Month
	weekday time.Weekday
}

// LastWeekday is a floating rule such as "last Monday of May".
func LastWeekday(month time.Month, weekday time.Weekday) When {
	return lastWeekday{month, weekday}
}

func (r lastWeekday) On(year int) time.Time {
	return LastWeekdayOfMonth(year, r.month, r.weekday)
}

func (r lastWeekday) String() string {
	return fmt.Sprintf("last %s of %s", r.weekday, r.month)
}

type easterOffset int

// EasterOffset is a rule a fixed number of days from Easter Sunday.
func EasterOffset(days int) When { return easterOffset(days) }

func (o easterOffset) On(year int) time.Time {
	return EasterSunday(year).AddDate(0, 0, int(o))
}

func (o easterOffset) String() string { return "Easter" + signedDays(int(o)) }

type thanksgivingOffset int

// ThanksgivingOffset is a rule a fixed number of days from Thanksgiving Day.
func ThanksgivingOffset(days int) When { return thanksgivingOffset(days) }

func (o thanksgivingOffset) On(year int) time.Time {
	return Thanksgiving(year).AddDate(0, 0, int(o))
}

func (o thanksgivingOffset) String() string { return "Thanksgiving" + signedDays(int(o)) }

type firstMondayOffset struct {
	month time.Month
	days  int
}

// AfterFirstMonday is a rule a fixed number of days after the first Monday
// of a month. Election Day is AfterFirstMonday(time.November, 1).
func AfterFirstMonday(month time.Month, days int) When {
	return firstMondayOffset{month, days}
}

func (r firstMondayOffset) On(year int) time.Time {
	return NthWeekdayOfMonth(year, r.month, time.Monday, 1).AddDate(0, 0, r.days)
}

func (r firstMondayOffset) String() string {
	return fmt.Sprintf("1st Monday of %s%s", r.month, signedDays(r.days))
}

func signedDays(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%+dd", n)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
