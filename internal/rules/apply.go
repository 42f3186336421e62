package rules

import (
	"tsheet/internal/duration"
	"tsheet/internal/models"
)

// Apply runs every rule against every meeting, in order, and returns the
// meetings that survive with their resolved issue key and effective
// duration. Action semantics:
//
//   - skip with value "true" drops the meeting immediately; later rules are
//     not evaluated for it.
//   - set_task overwrites the issue key; with several matching rules the
//     last one wins.
//   - set_duration overwrites the duration, parsed from human-readable text
//     to minutes; the last matching rule wins. Unparseable values are
//     ignored.
func Apply(meetings []models.Meeting, ruleSet []models.Rule) []models.ClassifiedMeeting {
	out := make([]models.ClassifiedMeeting, 0, len(meetings))

	for _, m := range meetings {
		cm := models.ClassifiedMeeting{
			Meeting:         m,
			DurationMinutes: m.Duration,
		}
		skipped := false

		for _, r := range ruleSet {
			if !Matches(m, r) {
				continue
			}
			for _, a := range r.Actions {
				switch a.Type {
				case models.ActionSkip:
					if a.Value == "true" {
						skipped = true
					}
				case models.ActionSetTask:
					cm.IssueKey = a.Value
				case models.ActionSetDuration:
					if min, ok := duration.HumanToMinutes(a.Value); ok {
						cm.DurationMinutes = min
					}
				}
			}
			if skipped {
				break
			}
		}

		if !skipped {
			out = append(out, cm)
		}
	}
	return out
}
