// Package rules evaluates user-defined classification rules against
// calendar meetings. Evaluation is deliberately forgiving: malformed rule
// values and unknown field/operator combinations never match and never
// panic, so one bad rule cannot break meeting processing.
package rules

import (
	"strconv"
	"strings"

	"tsheet/internal/duration"
	"tsheet/internal/models"
)

// Matches evaluates a rule's conditions against a meeting. Conditions are
// folded strictly left to right: each condition's own logic operator joins
// it with the accumulated result of everything before it, and the first
// condition's logic value is ignored. There is no AND-over-OR precedence —
// [A, B(OR), C(AND)] evaluates as ((A OR B) AND C). A rule with no
// conditions matches nothing.
func Matches(m models.Meeting, r models.Rule) bool {
	if len(r.Conditions) == 0 {
		return false
	}
	result := evalCondition(m, r.Conditions[0])
	for _, c := range r.Conditions[1:] {
		if c.Logic == models.LogicOr {
			result = result || evalCondition(m, c)
		} else {
			result = result && evalCondition(m, c)
		}
	}
	return result
}

func evalCondition(m models.Meeting, c models.Condition) bool {
	switch c.Field {
	case models.FieldParticipants:
		return evalParticipants(m, c)
	case models.FieldSummary:
		return evalSummary(m.Subject, c)
	case models.FieldDuration:
		return evalDuration(m.Duration, c)
	case models.FieldOrganizer:
		return evalOrganizer(m.Organizer, c)
	default:
		return false
	}
}

func evalParticipants(m models.Meeting, c models.Condition) bool {
	switch c.Operator {
	case models.OpGreater, models.OpLess, models.OpEqualNum:
		n, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil {
			return false
		}
		return compareInts(m.Participants, n, c.Operator)
	case models.OpIncludes, models.OpNotIncludes:
		found := false
		for _, a := range m.RequiredAttendees {
			if a == c.Value {
				found = true
				break
			}
		}
		if !found {
			for _, a := range m.OptionalAttendees {
				if a == c.Value {
					found = true
					break
				}
			}
		}
		if c.Operator == models.OpNotIncludes {
			return !found
		}
		return found
	default:
		return false
	}
}

func evalSummary(subject string, c models.Condition) bool {
	switch c.Operator {
	case models.OpEquals:
		return strings.EqualFold(subject, c.Value)
	case models.OpContains:
		return strings.Contains(strings.ToLower(subject), strings.ToLower(c.Value))
	case models.OpNotContains:
		return !strings.Contains(strings.ToLower(subject), strings.ToLower(c.Value))
	default:
		return false
	}
}

func evalDuration(minutes int, c models.Condition) bool {
	want, ok := duration.HumanToMinutes(c.Value)
	if !ok {
		return false
	}
	switch c.Operator {
	case models.OpGreater, models.OpLess, models.OpEqualNum:
		return compareInts(minutes, want, c.Operator)
	default:
		return false
	}
}

func evalOrganizer(organizer string, c models.Condition) bool {
	switch c.Operator {
	case models.OpIs:
		return strings.EqualFold(organizer, c.Value)
	case models.OpIsNot:
		return !strings.EqualFold(organizer, c.Value)
	default:
		return false
	}
}

func compareInts(have, want int, op models.ConditionOperator) bool {
	switch op {
	case models.OpGreater:
		return have > want
	case models.OpLess:
		return have < want
	case models.OpEqualNum:
		return have == want
	default:
		return false
	}
}
