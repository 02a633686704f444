// Package contrib contains the core domain types for per-day contribution
// activity: the trailing date window, raw contribution days, and the set of
// dates on which a user was active.
package contrib

import "time"

// WindowDays is the length of the trailing date window shown in the grid.
const WindowDays = 30

const (
	// DateFormat is the canonical date form used throughout the system.
	DateFormat = "2006-01-02"
	// DisplayFormat is the human-facing form used for column headers.
	DisplayFormat = "01/02/2006"
)

// Day is one calendar day's activity count for a user, as reported by the
// GitHub contribution calendar.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"contributionCount"`
}

// DateSet is a set of dates in canonical YYYY-MM-DD form.
type DateSet map[string]struct{}

// Contains reports whether date is in the set.
func (s DateSet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// Window returns the trailing WindowDays calendar dates ending at now,
// oldest first, each in canonical YYYY-MM-DD form.
func Window(now time.Time) []string {
	dates := make([]string, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, 0, -i).Format(DateFormat))
	}
	return dates
}

// DisplayDates reformats window dates to MM/DD/YYYY, preserving order.
func DisplayDates(window []string) []string {
	out := make([]string, 0, len(window))
	for _, date := range window {
		t, err := time.Parse(DateFormat, date)
		if err != nil {
			out = append(out, date)
			continue
		}
		out = append(out, t.Format(DisplayFormat))
	}
	return out
}

// LastMonth keeps only days whose date is strictly after one calendar month
// before now. Canonical dates order lexically, so the comparison is on the
// string form.
func LastMonth(days []Day, now time.Time) []Day {
	cutoff := now.AddDate(0, -1, 0).Format(DateFormat)

	var kept []Day
	for _, day := range days {
		if day.Date > cutoff {
			kept = append(kept, day)
		}
	}
	return kept
}

// ActiveDates returns the dates with a nonzero contribution count.
func ActiveDates(days []Day) DateSet {
	active := make(DateSet)
	for _, day := range days {
		if day.Count > 0 {
			active[day.Date] = struct{}{}
		}
	}
	return active
}
