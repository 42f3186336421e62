package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsheet/internal/models"
)

func TestParseCondition(t *testing.T) {
	c, err := parseCondition("summary contains standup", models.LogicAnd)
	require.NoError(t, err)
	assert.Equal(t, models.FieldSummary, c.Field)
	assert.Equal(t, models.OpContains, c.Operator)
	assert.Equal(t, "standup", c.Value)
	assert.Equal(t, models.LogicAnd, c.Logic)
}

func TestParseCondition_ValueWithSpaces(t *testing.T) {
	c, err := parseCondition("summary is Weekly planning meeting", models.LogicOr)
	require.NoError(t, err)
	assert.Equal(t, "Weekly planning meeting", c.Value)
	assert.Equal(t, models.LogicOr, c.Logic)
}

func TestParseCondition_NumericOperator(t *testing.T) {
	c, err := parseCondition("duration < 15m", models.LogicAnd)
	require.NoError(t, err)
	assert.Equal(t, models.FieldDuration, c.Field)
	assert.Equal(t, models.OpLess, c.Operator)
	assert.Equal(t, "15m", c.Value)
}

func TestParseCondition_Invalid(t *testing.T) {
	_, err := parseCondition("summary", models.LogicAnd)
	assert.Error(t, err)

	_, err = parseCondition("summary contains", models.LogicAnd)
	assert.Error(t, err)
}
