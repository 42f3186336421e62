package workcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpectedHours(t *testing.T) {
	tests := []struct {
		day  string
		want int
		name string
	}{
		{"2024-01-01", 0, "new year holiday"},
		{"2024-03-08", 0, "march 8 holiday"},
		{"2024-04-30", 0, "transferred rest day"},
		{"2024-03-07", 7, "pre-holiday"},
		{"2024-03-06", 8, "regular wednesday"},
		{"2024-03-09", 0, "regular saturday"},
		{"2024-03-10", 0, "regular sunday"},
		{"2024-04-27", 7, "working saturday, shortened"},
		{"2025-06-11", 7, "pre-holiday 2025"},
		{"2025-06-12", 0, "holiday 2025"},
		{"2026-02-04", 8, "weekday outside tables falls back to weekend rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedHours(tt.day))
		})
	}
}

func TestExpectedHours_AcceptsTimestamps(t *testing.T) {
	assert.Equal(t, 0, ExpectedHours("2024-01-01T10:00:00+03:00"))
	assert.Equal(t, 8, ExpectedHours("2024-03-06T00:00:00"))
}

func TestExpectedHours_Garbage(t *testing.T) {
	assert.Equal(t, 0, ExpectedHours("not a date"))
	assert.Equal(t, 0, ExpectedHours(""))
}

func TestNormalizeDay(t *testing.T) {
	assert.Equal(t, "2024-03-07", NormalizeDay("2024-03-07"))
	assert.Equal(t, "2024-03-07", NormalizeDay("2024-03-07T15:04:05+03:00"))
	assert.Equal(t, "2024-03-07", NormalizeDay(" 2024-03-07 "))
}

func TestMonthExpected(t *testing.T) {
	// January 2024: 17 working days of 8 hours, no pre-holidays.
	assert.Equal(t, 136, MonthExpected(2024, time.January))
}

func TestRangeExpected(t *testing.T) {
	// Mar 6 (8) + Mar 7 pre-holiday (7) + Mar 8 holiday (0) + Mar 9-10 weekend (0).
	assert.Equal(t, 15, RangeExpected("2024-03-06", "2024-03-10"))
	assert.Equal(t, 0, RangeExpected("2024-03-10", "2024-03-06"))
}
