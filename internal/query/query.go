// Package query composes tracker filter queries from structured parts.
// One clause tree serves both trackers; the literal syntax comes from a
// per-tracker Syntax implementation, so adding a tracker means adding a
// renderer, not another clause hierarchy.
package query

import "strings"

// Logic operators joining clauses.
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// functionTokens are value tokens that must stay unquoted in rendered
// queries (tracker-side function calls, not string literals).
var functionTokens = map[string]bool{
	"me()":          true,
	"currentUser()": true,
	"empty()":       true,
	"notEmpty()":    true,
	"now()":         true,
}

// IsFunctionToken reports whether the value is a tracker function call that
// renderers must not quote.
func IsFunctionToken(v string) bool { return functionTokens[v] }

// Syntax renders the tracker-specific literal query text.
type Syntax interface {
	// Term renders one filter term. Zero values render to the empty
	// string, which Join drops.
	Term(name string, op string, values []string) string
	// Join combines rendered sub-expressions with the tracker's boolean
	// syntax.
	Join(logic string, parts []string) string
	// OrderBy renders the sorting clause.
	OrderBy(field, direction string) string
}

// Clause is a composable piece of a query.
type Clause interface {
	Render(s Syntax) string
}

// Term is a single name/operator/values filter.
type Term struct {
	Name     string
	Operator string
	Values   []string
}

// Param builds a single-value term.
func Param(name, operator, value string) Term {
	return Term{Name: name, Operator: operator, Values: []string{value}}
}

// ParamList builds a multi-value term.
func ParamList(name, operator string, values ...string) Term {
	return Term{Name: name, Operator: operator, Values: values}
}

func (t Term) Render(s Syntax) string {
	return s.Term(t.Name, t.Operator, t.Values)
}

// Group joins sub-clauses with one logic operator. Empty sub-renders are
// dropped before joining.
type Group struct {
	Logic   string
	Clauses []Clause
}

// And groups clauses with AND logic.
func And(clauses ...Clause) Group { return Group{Logic: LogicAnd, Clauses: clauses} }

// Or groups clauses with OR logic.
func Or(clauses ...Clause) Group { return Group{Logic: LogicOr, Clauses: clauses} }

func (g Group) Render(s Syntax) string {
	parts := make([]string, 0, len(g.Clauses))
	for _, c := range g.Clauses {
		if r := c.Render(s); r != "" {
			parts = append(parts, r)
		}
	}
	return s.Join(g.Logic, parts)
}

// Builder accumulates top-level clauses and an optional sort, and renders
// the final query string for its Syntax.
type Builder struct {
	syntax    Syntax
	clauses   []Clause
	sortField string
	sortDir   string
}

// NewBuilder creates a Builder for the given tracker syntax.
func NewBuilder(s Syntax) *Builder {
	return &Builder{syntax: s}
}

// Add appends a clause. Returns the builder for chaining.
func (b *Builder) Add(c Clause) *Builder {
	b.clauses = append(b.clauses, c)
	return b
}

// SortBy sets the sorting clause. Direction is "ASC" or "DESC".
func (b *Builder) SortBy(field, direction string) *Builder {
	b.sortField = field
	b.sortDir = direction
	return b
}

// Query renders all clauses joined with AND, followed by the sort clause.
// Clauses rendering to the empty string are omitted.
func (b *Builder) Query() string {
	parts := make([]string, 0, len(b.clauses))
	for _, c := range b.clauses {
		if r := c.Render(b.syntax); r != "" {
			parts = append(parts, r)
		}
	}
	q := b.syntax.Join(LogicAnd, parts)
	if b.sortField != "" {
		sort := b.syntax.OrderBy(b.sortField, b.sortDir)
		if q == "" {
			return sort
		}
		return strings.TrimSpace(q + " " + sort)
	}
	return q
}
