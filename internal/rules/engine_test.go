package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tsheet/internal/models"
)

func meeting() models.Meeting {
	return models.Meeting{
		Key:               "m-1",
		Subject:           "Sprint Planning",
		Duration:          60,
		Participants:      150,
		RequiredAttendees: []string{"alice@example.com", "bob@example.com"},
		OptionalAttendees: []string{"carol@example.com"},
		Organizer:         "Alice Ivanova",
	}
}

func cond(field models.ConditionField, op models.ConditionOperator, value string, logic models.ConditionLogic) models.Condition {
	return models.Condition{Field: field, Operator: op, Value: value, Logic: logic}
}

func rule(conds ...models.Condition) models.Rule {
	return models.Rule{Name: "r", Conditions: conds, Actions: []models.Action{{Type: models.ActionSkip, Value: "true"}}}
}

func TestMatches_Participants(t *testing.T) {
	m := meeting()

	assert.True(t, Matches(m, rule(cond(models.FieldParticipants, models.OpGreater, "100", ""))))
	assert.False(t, Matches(m, rule(cond(models.FieldParticipants, models.OpLess, "100", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldParticipants, models.OpEqualNum, "150", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldParticipants, models.OpIncludes, "carol@example.com", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldParticipants, models.OpNotIncludes, "dave@example.com", ""))))
	assert.False(t, Matches(m, rule(cond(models.FieldParticipants, models.OpIncludes, "dave@example.com", ""))))
}

func TestMatches_Summary(t *testing.T) {
	m := meeting()

	assert.True(t, Matches(m, rule(cond(models.FieldSummary, models.OpEquals, "sprint planning", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldSummary, models.OpContains, "Planning", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldSummary, models.OpNotContains, "Coffee", ""))))
	assert.False(t, Matches(m, rule(cond(models.FieldSummary, models.OpContains, "Coffee", ""))))
}

func TestMatches_Duration(t *testing.T) {
	m := meeting() // 60 minutes

	assert.True(t, Matches(m, rule(cond(models.FieldDuration, models.OpEqualNum, "1h", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldDuration, models.OpGreater, "30m", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldDuration, models.OpLess, "2ч", ""))))
	assert.False(t, Matches(m, rule(cond(models.FieldDuration, models.OpGreater, "garbage", ""))), "unparseable rule value never matches")
}

func TestMatches_Organizer(t *testing.T) {
	m := meeting()

	assert.True(t, Matches(m, rule(cond(models.FieldOrganizer, models.OpIs, "alice ivanova", ""))))
	assert.True(t, Matches(m, rule(cond(models.FieldOrganizer, models.OpIsNot, "Bob", ""))))
}

func TestMatches_OrCombination(t *testing.T) {
	m := meeting()

	// participants > 100 OR summary contains "Coffee talk": first holds.
	r := rule(
		cond(models.FieldParticipants, models.OpGreater, "100", ""),
		cond(models.FieldSummary, models.OpContains, "Coffee talk", models.LogicOr),
	)
	assert.True(t, Matches(m, r))

	// Neither holds.
	r = rule(
		cond(models.FieldParticipants, models.OpGreater, "1000", ""),
		cond(models.FieldSummary, models.OpContains, "Coffee talk", models.LogicOr),
	)
	assert.False(t, Matches(m, r))
}

func TestMatches_LeftToRightFold(t *testing.T) {
	m := meeting()

	// A=false, B=true, C=true: ((A OR B) AND C) = true.
	// AND-first precedence (A OR (B AND C)) would also be true here, so pin
	// the distinguishing case: A=true, B=false(OR), C=false(AND).
	// Left-to-right: ((true OR false) AND false) = false.
	// Precedence grouping: (true OR (false AND false)) = true.
	r := rule(
		cond(models.FieldParticipants, models.OpGreater, "100", ""),             // true
		cond(models.FieldSummary, models.OpContains, "Coffee", models.LogicOr),  // false
		cond(models.FieldOrganizer, models.OpIs, "Nobody", models.LogicAnd),     // false
	)
	assert.False(t, Matches(m, r), "fold must be strictly left to right, no AND precedence")

	r = rule(
		cond(models.FieldParticipants, models.OpGreater, "1000", ""),            // false
		cond(models.FieldSummary, models.OpContains, "Sprint", models.LogicOr),  // true
		cond(models.FieldDuration, models.OpEqualNum, "1h", models.LogicAnd),    // true
	)
	assert.True(t, Matches(m, r))
}

func TestMatches_FirstConditionLogicIgnored(t *testing.T) {
	m := meeting()
	r := rule(cond(models.FieldParticipants, models.OpGreater, "100", models.LogicOr))
	assert.True(t, Matches(m, r))
}

func TestMatches_UnknownFieldOrOperator(t *testing.T) {
	m := meeting()

	assert.False(t, Matches(m, rule(cond("location", models.OpEquals, "room 1", ""))))
	assert.False(t, Matches(m, rule(cond(models.FieldSummary, models.OpGreater, "5", ""))), "operator invalid for field")
	assert.False(t, Matches(m, rule(cond(models.FieldParticipants, models.OpEqualNum, "many", ""))), "non-numeric value")
}

func TestMatches_NoConditions(t *testing.T) {
	assert.False(t, Matches(meeting(), models.Rule{Name: "empty"}))
}
