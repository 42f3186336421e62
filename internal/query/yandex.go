package query

import (
	"fmt"
	"strings"
)

// YandexSyntax renders the Yandex Tracker filter query language:
// `"Field": value` pairs, comma lists for multiple values, and a
// `"Sort by"` clause.
type YandexSyntax struct{}

func (YandexSyntax) Term(name, op string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(values))
	for _, v := range values {
		rendered = append(rendered, yandexValue(v))
	}
	list := strings.Join(rendered, ", ")
	if op == "" || op == ":" {
		return fmt.Sprintf("%q: %s", name, list)
	}
	return fmt.Sprintf("%q: %s%s", name, op, list)
}

func (YandexSyntax) Join(logic string, parts []string) string {
	return strings.Join(parts, " "+logic+" ")
}

func (YandexSyntax) OrderBy(field, direction string) string {
	if direction == "" {
		direction = "ASC"
	}
	return fmt.Sprintf("%q: %s %s", "Sort by", field, direction)
}

// yandexValue quotes values containing whitespace; function tokens and
// plain tokens stay bare.
func yandexValue(v string) string {
	if IsFunctionToken(v) {
		return v
	}
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
