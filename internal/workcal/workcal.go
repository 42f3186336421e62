// Package workcal answers how many working hours a calendar date nominally
// requires: 0 for holidays and non-working days, 7 for shortened pre-holiday
// days, 8 otherwise. The tables are static reference data for the RU
// production calendar; no I/O happens here.
package workcal

import (
	"strings"
	"time"
)

const (
	fullDay      = 8
	shortDay     = 7
	nonWorkHours = 0
)

// NormalizeDay reduces an ISO timestamp or date string to YYYY-MM-DD.
// Input that already has the right shape passes through; anything longer is
// parsed and re-derived so "2024-03-07T15:04:05+03:00" and "2024-03-07"
// resolve to the same day.
func NormalizeDay(day string) string {
	day = strings.TrimSpace(day)
	if len(day) == 10 {
		if _, err := time.Parse("2006-01-02", day); err == nil {
			return day
		}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, day); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(day) >= 10 {
		if _, err := time.Parse("2006-01-02", day[:10]); err == nil {
			return day[:10]
		}
	}
	return day
}

// ExpectedHours returns the expected working hours for the given date.
// Lookup order: holiday or explicit non-working day → 0, pre-holiday → 7,
// weekend (unless a transferred working Saturday) → 0, otherwise 8.
func ExpectedHours(day string) int {
	d := NormalizeDay(day)

	if holidays[d] || nonWorkDays[d] {
		return nonWorkHours
	}
	if preHolidays[d] {
		return shortDay
	}

	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		return nonWorkHours
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		if workingWeekends[d] {
			return fullDay
		}
		return nonWorkHours
	}
	return fullDay
}

// MonthExpected sums expected hours over every day of the given month.
func MonthExpected(year int, month time.Month) int {
	total := 0
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		total += ExpectedHours(d.Format("2006-01-02"))
	}
	return total
}

// RangeExpected sums expected hours for every day in [from, to] inclusive.
// Both bounds are normalized; an inverted range yields 0.
func RangeExpected(from, to string) int {
	start, err := time.Parse("2006-01-02", NormalizeDay(from))
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", NormalizeDay(to))
	if err != nil {
		return 0
	}
	total := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total += ExpectedHours(d.Format("2006-01-02"))
	}
	return total
}
