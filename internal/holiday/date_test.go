package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasterSunday_PublishedTable(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{1900, time.April, 15},
		{1913, time.March, 23},
		{1943, time.April, 25},
		{1954, time.April, 18},
		{1961, time.April, 2},
		{2000, time.April, 23},
		{2008, time.March, 23},
		{2011, time.April, 24},
		{2019, time.April, 21},
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2038, time.April, 25},
		{2049, time.April, 18},
		{2076, time.April, 19},
		{2100, time.March, 28},
	}

	for _, tt := range tests {
		got := EasterSunday(tt.year)
		assert.Equal(t, Date(tt.year, tt.month, tt.day), got, "year %d", tt.year)
	}
}

func TestEasterSunday_AlwaysSundayInSpringWindow(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		e := EasterSunday(year)
		require.Equal(t, time.Sunday, e.Weekday(), "year %d", year)
		lo := Date(year, time.March, 22)
		hi := Date(year, time.April, 25)
		assert.False(t, e.Before(lo) || e.After(hi), "year %d: %s outside Mar 22..Apr 25", year, e)
		assert.Equal(t, time.UTC, e.Location())
	}
}

func TestNthWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, Date(2024, time.November, 28), NthWeekdayOfMonth(2024, time.November, time.Thursday, 4))
	assert.Equal(t, Date(2024, time.January, 15), NthWeekdayOfMonth(2024, time.January, time.Monday, 3))
	// First day of the month already matches.
	assert.Equal(t, Date(2024, time.January, 1), NthWeekdayOfMonth(2024, time.January, time.Monday, 1))
	// A 5th Friday in February 2024 does not exist and rolls into March.
	assert.Equal(t, Date(2024, time.March, 1), NthWeekdayOfMonth(2024, time.February, time.Friday, 5))
}

func TestNthWeekdayOfMonth_WeekdayMatches(t *testing.T) {
	for year := 2000; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			for wd := time.Sunday; wd <= time.Saturday; wd++ {
				for n := 1; n <= 4; n++ {
					d := NthWeekdayOfMonth(year, month, wd, n)
					require.Equal(t, wd, d.Weekday())
					require.Equal(t, month, d.Month())
					require.Equal(t, n, (d.Day()-1)/7+1)
				}
			}
		}
	}
}

func TestLastWeekdayOfMonth(t *testing.T) {
	assert.Equal(t, Date(2024, time.May, 27), LastWeekdayOfMonth(2024, time.May, time.Monday))
	assert.Equal(t, Date(2024, time.February, 29), LastWeekdayOfMonth(2024, time.February, time.Thursday))
	assert.Equal(t, Date(2023, time.December, 31), LastWeekdayOfMonth(2023, time.December, time.Sunday))

	for year := 2000; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			for wd := time.Sunday; wd <= time.Saturday; wd++ {
				d := LastWeekdayOfMonth(year, month, wd)
				require.Equal(t, wd, d.Weekday())
				require.Equal(t, month, d.Month())
				require.NotEqual(t, month, d.AddDate(0, 0, 7).Month())
			}
		}
	}
}

func TestThanksgiving(t *testing.T) {
	assert.Equal(t, Date(2023, time.November, 23), Thanksgiving(2023))
	assert.Equal(t, Date(2025, time.November, 27), Thanksgiving(2025))
}
