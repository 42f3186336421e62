package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Informal duration grammar: whitespace-separated number+unit pairs in
// days/hours/minutes/seconds order, latin or Cyrillic unit letters
// ("1h 30m", "2ч", "45м", "1д 2ч"). Longer unit words are accepted as long
// as they start with the same letter ("30min", "2часа").
var humanRe = regexp.MustCompile(`^\s*(?:(\d+)\s*[dDдД][a-zа-яА-Я]*\s*)?(?:(\d+)\s*[hHчЧ][a-zа-яА-Я]*\s*)?(?:(\d+)\s*[mMмМ][a-zа-яА-Я]*\s*)?(?:(\d+)\s*[sSсС][a-zа-яА-Я]*\s*)?$`)

// HumanToISO parses informal duration input into ISO form. The bool is
// false for input the grammar does not recognize.
func HumanToISO(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	m := humanRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}
	days, hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4])
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" {
		return "", false
	}

	var b strings.Builder
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	b.WriteByte('T')
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 {
		fmt.Fprintf(&b, "%dS", seconds)
	}
	iso := b.String()
	if iso == "PT" {
		// All components were explicit zeros ("0m"); keep it representable.
		return "PT0S", true
	}
	return iso, true
}

// ValidateHuman reports whether the text matches the informal duration
// grammar accepted by HumanToISO. Used for form validation before
// conversion is attempted.
func ValidateHuman(text string) bool {
	_, ok := HumanToISO(text)
	return ok
}

// HumanToMinutes parses informal input and converts it to whole minutes,
// the unit rule values and meeting durations are compared in.
func HumanToMinutes(text string) (int, bool) {
	iso, ok := HumanToISO(text)
	if !ok {
		return 0, false
	}
	ms, ok := ISOToMs(iso)
	if !ok {
		return 0, false
	}
	return int(ms / msPerMinute), true
}
