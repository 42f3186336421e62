package query

import (
	"fmt"
	"strings"
)

// JQLSyntax renders Jira JQL: `field op value` terms, `field in (...)` for
// multiple values, and an ORDER BY clause.
type JQLSyntax struct{}

func (JQLSyntax) Term(name, op string, values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		if op == "" {
			op = "="
		}
		return fmt.Sprintf("%s %s %s", name, op, jqlValue(values[0]))
	default:
		rendered := make([]string, 0, len(values))
		for _, v := range values {
			rendered = append(rendered, jqlValue(v))
		}
		verb := "in"
		if op == "!=" || strings.EqualFold(op, "not in") {
			verb = "not in"
		}
		return fmt.Sprintf("%s %s (%s)", name, verb, strings.Join(rendered, ", "))
	}
}

func (JQLSyntax) Join(logic string, parts []string) string {
	if len(parts) > 1 && logic == LogicOr {
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return strings.Join(parts, " "+logic+" ")
}

func (JQLSyntax) OrderBy(field, direction string) string {
	if direction == "" {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", field, direction)
}

// jqlValue double-quotes string values; function tokens like currentUser()
// must stay unquoted.
func jqlValue(v string) string {
	if IsFunctionToken(v) {
		return v
	}
	return `"` + v + `"`
}
