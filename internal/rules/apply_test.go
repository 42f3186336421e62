package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsheet/internal/models"
)

func skipRule(name string, conds ...models.Condition) models.Rule {
	return models.Rule{Name: name, Conditions: conds, Actions: []models.Action{{Type: models.ActionSkip, Value: "true"}}}
}

func setTaskRule(name, key string, conds ...models.Condition) models.Rule {
	return models.Rule{Name: name, Conditions: conds, Actions: []models.Action{{Type: models.ActionSetTask, Value: key}}}
}

func TestApply_SkipDropsMeeting(t *testing.T) {
	meetings := []models.Meeting{
		{Key: "m-1", Subject: "Daily Standup", Duration: 15},
		{Key: "m-2", Subject: "Design Review", Duration: 60},
	}
	rs := []models.Rule{
		skipRule("skip standups", cond(models.FieldSummary, models.OpContains, "standup", "")),
	}

	got := Apply(meetings, rs)
	require.Len(t, got, 1)
	assert.Equal(t, "m-2", got[0].Key)
}

func TestApply_SkipWinsOverLaterActions(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "Planning", Duration: 60}}
	rs := []models.Rule{
		skipRule("skip planning", cond(models.FieldSummary, models.OpContains, "planning", "")),
		setTaskRule("assign planning", "PROJ-1", cond(models.FieldSummary, models.OpContains, "planning", "")),
	}

	got := Apply(meetings, rs)
	assert.Empty(t, got, "a matching skip excludes the meeting regardless of other rules")
}

func TestApply_LastSetTaskWins(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "Planning", Duration: 60}}
	rs := []models.Rule{
		setTaskRule("first", "PROJ-1", cond(models.FieldSummary, models.OpContains, "planning", "")),
		setTaskRule("second", "PROJ-2", cond(models.FieldSummary, models.OpContains, "plan", "")),
	}

	got := Apply(meetings, rs)
	require.Len(t, got, 1)
	assert.Equal(t, "PROJ-2", got[0].IssueKey)
}

func TestApply_SetDuration(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "Planning", Duration: 60}}
	rs := []models.Rule{
		{
			Name:       "cap planning",
			Conditions: []models.Condition{cond(models.FieldSummary, models.OpContains, "planning", "")},
			Actions:    []models.Action{{Type: models.ActionSetDuration, Value: "30m"}},
		},
	}

	got := Apply(meetings, rs)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].DurationMinutes)
}

func TestApply_BadDurationValueIgnored(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "Planning", Duration: 60}}
	rs := []models.Rule{
		{
			Name:       "broken",
			Conditions: []models.Condition{cond(models.FieldSummary, models.OpContains, "planning", "")},
			Actions:    []models.Action{{Type: models.ActionSetDuration, Value: "soon"}},
		},
	}

	got := Apply(meetings, rs)
	require.Len(t, got, 1)
	assert.Equal(t, 60, got[0].DurationMinutes, "unparseable duration leaves the original")
}

func TestApply_NoMatchPassesThrough(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "1:1", Duration: 30}}
	rs := []models.Rule{
		skipRule("skip standups", cond(models.FieldSummary, models.OpContains, "standup", "")),
	}

	got := Apply(meetings, rs)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].IssueKey)
	assert.Equal(t, 30, got[0].DurationMinutes)
}

func TestApply_SkipFalseDoesNotSkip(t *testing.T) {
	meetings := []models.Meeting{{Key: "m-1", Subject: "Planning", Duration: 60}}
	rs := []models.Rule{
		{
			Name:       "disabled skip",
			Conditions: []models.Condition{cond(models.FieldSummary, models.OpContains, "planning", "")},
			Actions:    []models.Action{{Type: models.ActionSkip, Value: "false"}},
		},
	}

	got := Apply(meetings, rs)
	assert.Len(t, got, 1)
}
