package models

import (
	"fmt"
	"time"
)

// ConditionField identifies which meeting attribute a condition inspects.
type ConditionField string

const (
	FieldSummary      ConditionField = "summary"
	FieldParticipants ConditionField = "participants"
	FieldDuration     ConditionField = "duration"
	FieldOrganizer    ConditionField = "organizer"
)

// ConditionOperator is the comparison applied to a condition field.
// Valid operators depend on the field; unknown combinations never match.
type ConditionOperator string

const (
	OpGreater     ConditionOperator = ">"
	OpLess        ConditionOperator = "<"
	OpEqualNum    ConditionOperator = "="
	OpIncludes    ConditionOperator = "includes"
	OpNotIncludes ConditionOperator = "not_includes"
	OpEquals      ConditionOperator = "equals"
	OpContains    ConditionOperator = "contains"
	OpNotContains ConditionOperator = "not_contains"
	OpIs          ConditionOperator = "is"
	OpIsNot       ConditionOperator = "is_not"
)

// ConditionLogic joins a condition with the result of the preceding
// conditions. The first condition's logic value is ignored.
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// Condition is a single field/operator/value test against a meeting.
type Condition struct {
	Field    ConditionField    `json:"field" yaml:"field"`
	Operator ConditionOperator `json:"operator" yaml:"operator"`
	Value    string            `json:"value" yaml:"value"`
	Logic    ConditionLogic    `json:"logic,omitempty" yaml:"logic,omitempty"`
}

// ActionType identifies what a matching rule does to a meeting.
type ActionType string

const (
	ActionSkip        ActionType = "skip"
	ActionSetTask     ActionType = "set_task"
	ActionSetDuration ActionType = "set_duration"
)

// Action is a single effect applied when a rule matches.
type Action struct {
	Type  ActionType `json:"type" yaml:"type"`
	Value string     `json:"value" yaml:"value"`
}

// Rule maps meeting conditions to classification actions.
type Rule struct {
	ID          string      `json:"id" yaml:"id,omitempty"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Conditions  []Condition `json:"conditions" yaml:"conditions"`
	Actions     []Action    `json:"actions" yaml:"actions"`
	CreatedAt   time.Time   `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt   time.Time   `json:"updatedAt,omitempty" yaml:"-"`
}

// Validate enforces the save-time invariants: a rule needs a name and at
// least one action, with at most one action of each type. Condition
// operator/field combinations are deliberately not validated here — legacy
// rule data with unknown operators must load and simply never match.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("rule %q has no actions", r.Name)
	}
	seen := map[ActionType]bool{}
	for _, a := range r.Actions {
		if seen[a.Type] {
			return fmt.Errorf("rule %q has more than one %q action", r.Name, a.Type)
		}
		seen[a.Type] = true
	}
	return nil
}
