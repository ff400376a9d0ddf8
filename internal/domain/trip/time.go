package trip

import (
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a local ISO YYYY-MM-DD date
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClockMinutes parses a local HH:MM clock time into minutes past
// midnight
func ParseClockMinutes(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// DayIndexFromDates resolves a date to its 0-based day offset from the trip
// start date. Returns false when either date fails to parse.
func DayIndexFromDates(tripStartDate, date string) (int, bool) {
	start, ok := ParseDate(tripStartDate)
	if !ok {
		return 0, false
	}
	d, ok := ParseDate(date)
	if !ok {
		return 0, false
	}
	return int(d.Sub(start).Hours() / 24), true
}
