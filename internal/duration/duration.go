package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tsheet/internal/models"
)

// The codec speaks the ISO-8601 duration subset used by tracker worklogs:
// P{years}Y{months}M{weeks}W{days}D(T{hours}H{minutes}M{seconds}S)?.
// Durations are business time, the way Yandex Tracker records worklogs:
// a day is 8 working hours, a week is 5 working days. All arithmetic is
// integer milliseconds; no timezone adjustment happens here.
const (
	msPerSecond int64 = 1000
	msPerMinute       = 60 * msPerSecond
	msPerHour         = 60 * msPerMinute
	msPerDay          = 8 * msPerHour
	msPerWeek         = 5 * msPerDay
	msPerMonth        = 4 * msPerWeek
	msPerYear         = 12 * msPerMonth
)

var isoRe = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// fields holds the raw components of a parsed ISO duration string.
type fields struct {
	years, months, weeks, days int
	hours, minutes, seconds    int
}

// parseISO parses an ISO duration string into its components. The second
// return value is false for empty or malformed input; parse failures never
// produce an error — a bad record degrades to "no contribution".
func parseISO(iso string) (fields, bool) {
	iso = strings.TrimSpace(iso)
	if iso == "" || iso == "P" || iso == "PT" {
		return fields{}, false
	}
	m := isoRe.FindStringSubmatch(iso)
	if m == nil {
		return fields{}, false
	}
	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}
	f := fields{
		years:   atoi(m[1]),
		months:  atoi(m[2]),
		weeks:   atoi(m[3]),
		days:    atoi(m[4]),
		hours:   atoi(m[5]),
		minutes: atoi(m[6]),
		seconds: atoi(m[7]),
	}
	return f, true
}

// ISOToMs converts an ISO duration string into total business milliseconds.
// The bool is false when the input is empty or unparseable; callers must
// treat that as "no contribution", not as zero.
func ISOToMs(iso string) (int64, bool) {
	f, ok := parseISO(iso)
	if !ok {
		return 0, false
	}
	ms := int64(f.years)*msPerYear +
		int64(f.months)*msPerMonth +
		int64(f.weeks)*msPerWeek +
		int64(f.days)*msPerDay +
		int64(f.hours)*msPerHour +
		int64(f.minutes)*msPerMinute +
		int64(f.seconds)*msPerSecond
	return ms, true
}

// MsToBusiness converts a millisecond total into hours/minutes/seconds with
// carries. Hours do not roll up into days.
func MsToBusiness(ms int64) models.BusinessDuration {
	if ms < 0 {
		ms = 0
	}
	total := ms / msPerSecond
	return models.BusinessDuration{
		Hours:   int(total / 3600),
		Minutes: int(total / 60 % 60),
		Seconds: int(total % 60),
	}
}

// BusinessToISO serializes a BusinessDuration back into ISO form. This is
// the inverse of parsing: every duration addition in the system goes
// BusinessToISO → re-parse → ms so that a single code path defines the
// arithmetic.
func BusinessToISO(d models.BusinessDuration) string {
	var b strings.Builder
	b.WriteByte('P')
	if d.Years > 0 {
		fmt.Fprintf(&b, "%dY", d.Years)
	}
	if d.Months > 0 {
		fmt.Fprintf(&b, "%dM", d.Months)
	}
	if d.Days > 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}
	fmt.Fprintf(&b, "T%dH%dM%dS", d.Hours, d.Minutes, d.Seconds)
	return b.String()
}

// BusinessToMs converts a BusinessDuration to milliseconds by round-tripping
// through the ISO string form.
func BusinessToMs(d models.BusinessDuration) int64 {
	ms, ok := ISOToMs(BusinessToISO(d))
	if !ok {
		return 0
	}
	return ms
}

// SumISO parses every duration, accumulates the raw component fields
// independently, then normalizes seconds into minutes and minutes into
// hours. Hours are deliberately not normalized into days. Empty and
// unparseable entries are skipped.
func SumISO(durations []string) models.BusinessDuration {
	var acc fields
	for _, iso := range durations {
		f, ok := parseISO(iso)
		if !ok {
			continue
		}
		acc.years += f.years
		acc.months += f.months
		acc.days += f.days + f.weeks*5
		acc.hours += f.hours
		acc.minutes += f.minutes
		acc.seconds += f.seconds
	}
	acc.minutes += acc.seconds / 60
	acc.seconds %= 60
	acc.hours += acc.minutes / 60
	acc.minutes %= 60
	return models.BusinessDuration{
		Years:   acc.years,
		Months:  acc.months,
		Days:    acc.days,
		Hours:   acc.hours,
		Minutes: acc.minutes,
		Seconds: acc.seconds,
	}
}

// AddISO sums two ISO durations via the shared summation path.
func AddISO(a, b string) models.BusinessDuration {
	return SumISO([]string{a, b})
}

// Format renders a BusinessDuration for tables: "2d 3h 15m", omitting zero
// components, "0m" when the whole duration is zero. Seconds show only when
// they are the sole component.
func Format(d models.BusinessDuration) string {
	var parts []string
	if d.Years > 0 {
		parts = append(parts, fmt.Sprintf("%dy", d.Years))
	}
	if d.Months > 0 {
		parts = append(parts, fmt.Sprintf("%dmo", d.Months))
	}
	if d.Days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d.Days))
	}
	if d.Hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", d.Hours))
	}
	if d.Minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", d.Minutes))
	}
	if len(parts) == 0 {
		if d.Seconds > 0 {
			return fmt.Sprintf("%ds", d.Seconds)
		}
		return "0m"
	}
	return strings.Join(parts, " ")
}
