// Package dateutil produces canonical local-date keys.
//
// A date key is a "YYYY-MM-DD" string in the local timezone. The format is
// fixed so that string equality is calendar equality and lexicographic
// ordering is calendar ordering; streak logic and log lookups compare keys
// directly, never time.Time instants.
package dateutil

import "time"

// KeyLayout is the time.Format layout for date keys.
const KeyLayout = "2006-01-02"

// Key returns the local-date key for the given instant.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// Today returns the date key for the current instant.
func Today() string {
	return Key(time.Now())
}

// Yesterday returns the date key for one calendar day before today.
// AddDate handles month and year boundaries.
func Yesterday() string {
	return Key(time.Now().AddDate(0, 0, -1))
}

// Parse converts a date key back to a local midnight time.Time.
func Parse(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.Local)
}

// Day is one calendar day of an enumerated month.
type Day struct {
	Key     string       `json:"date"`
	Day     int          `json:"day"`
	Weekday time.Weekday `json:"weekday"`
}

// MonthDays enumerates every day of the given month in ascending order.
// The first entry's Weekday gives the leading offset for a Sunday-first
// calendar grid.
func MonthDays(year int, month time.Month) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	days := make([]Day, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Key:     Key(d),
			Day:     d.Day(),
			Weekday: d.Weekday(),
		})
	}
	return days
}

// WeekdayLabel returns the short weekday name ("Mon") for the instant,
// used as the histogram axis label in the weekly activity view.
func WeekdayLabel(t time.Time) string {
	return t.Format("Mon")
}
