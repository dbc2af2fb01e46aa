package holiday

import "time"

// Date returns midnight UTC for the given calendar day. Every date produced
// by this package goes through here so that a holiday is a calendar day,
// never an instant in some local zone.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NthWeekdayOfMonth returns the nth occurrence (1-based) of weekday in the
// given month. n is not bounds-checked: asking for a 5th occurrence that does
// not exist rolls over into the following month.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := Date(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// LastWeekdayOfMonth returns the last occurrence of weekday in the given month.
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	d := Date(year, month+1, 0)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// EasterSunday computes Western (Gregorian) Easter using the
// Meeus/Jones/Butcher algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return Date(year, time.Month(month), day)
}

// Thanksgiving returns the fourth Thursday of November.
func Thanksgiving(year int) time.Time {
	return NthWeekdayOfMonth(year, time.November, time.Thursday, 4)
}
