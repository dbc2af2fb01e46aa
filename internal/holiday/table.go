package holiday

import "time"

// officialRules are the US federal holidays (5 U.S.C. 6103).
var officialRules = []Rule{
	{"New Year's Day", CategoryHoliday, Fixed(time.January, 1)},
	{"Martin Luther King Jr. Day", CategoryHoliday, NthWeekday(time.January, time.Monday, 3)},
	{"Presidents' Day", CategoryHoliday, NthWeekday(time.February, time.Monday, 3)},
	{"Memorial Day", CategoryHoliday, LastWeekday(time.May, time.Monday)},
	{"Juneteenth", CategoryHoliday, Fixed(time.June, 19)},
	{"Independence Day", CategoryHoliday, Fixed(time.July, 4)},
	{"Labor Day", CategoryHoliday, NthWeekday(time.September, time.Monday, 1)},
	{"Columbus Day", CategoryHoliday, NthWeekday(time.October, time.Monday, 2)},
	{"Veterans Day", CategoryHoliday, Fixed(time.November, 11)},
	{"Thanksgiving Day", CategoryHoliday, NthWeekday(time.November, time.Thursday, 4)},
	{"Christmas Day", CategoryHoliday, Fixed(time.December, 25)},
}

// popularRules are widely observed dates that are not federal holidays.
var popularRules = []Rule{
	{"Groundhog Day", CategoryObservance, Fixed(time.February, 2)},
	{"Valentine's Day", CategoryObservance, Fixed(time.February, 14)},
	{"Mardi Gras", CategoryObservance, EasterOffset(-47)},
	{"Ash Wednesday", CategoryObservance, EasterOffset(-46)},
	{"Daylight Saving Time Begins", CategoryObservance, NthWeekday(time.March, time.Sunday, 2)},
	{"St. Patrick's Day", CategoryObservance, Fixed(time.March, 17)},
	{"Palm Sunday", CategoryObservance, EasterOffset(-7)},
	{"Good Friday", CategoryObservance, EasterOffset(-2)},
	{"Easter Sunday", CategoryObservance, EasterOffset(0)},
	{"April Fools' Day", CategoryObservance, Fixed(time.April, 1)},
	{"Tax Day", CategoryObservance, Fixed(time.April, 15)},
	{"Earth Day", CategoryObservance, Fixed(time.April, 22)},
	// Arbor Day varies by state; the national observance is approximated
	// as the 4th Friday of April.
	{"Arbor Day", CategoryObservance, NthWeekday(time.April, time.Friday, 4)},
	{"Cinco de Mayo", CategoryObservance, Fixed(time.May, 5)},
	{"Mother's Day", CategoryObservance, NthWeekday(time.May, time.Sunday, 2)},
	{"Flag Day", CategoryObservance, Fixed(time.June, 14)},
	{"Father's Day", CategoryObservance, NthWeekday(time.June, time.Sunday, 3)},
	{"Grandparents Day", CategoryObservance, AfterFirstMonday(time.September, 6)},
	{"Patriot Day", CategoryObservance, Fixed(time.September, 11)},
	{"Halloween", CategoryObservance, Fixed(time.October, 31)},
	{"Daylight Saving Time Ends", CategoryObservance, NthWeekday(time.November, time.Sunday, 1)},
	{"Election Day", CategoryObservance, AfterFirstMonday(time.November, 1)},
	{"Black Friday", CategoryObservance, ThanksgivingOffset(1)},
	{"Cyber Monday", CategoryObservance, ThanksgivingOffset(4)},
	{"Christmas Eve", CategoryObservance, Fixed(time.December, 24)},
	{"New Year's Eve", CategoryObservance, Fixed(time.December, 31)},
}

// Rules returns every rule in declaration order: official first, then popular.
// The returned slice is a copy.
func Rules() []Rule {
	out := make([]Rule, 0, len(officialRules)+len(popularRules))
	out = append(out, officialRules...)
	return append(out, popularRules...)
}
