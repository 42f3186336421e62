package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYandex_SingleValue(t *testing.T) {
	b := NewBuilder(YandexSyntax{}).
		Add(Param("Queue", "", "PROJ")).
		Add(Param("Assignee", "", "me()"))

	assert.Equal(t, `"Queue": PROJ AND "Assignee": me()`, b.Query())
}

func TestYandex_MultiValue(t *testing.T) {
	b := NewBuilder(YandexSyntax{}).
		Add(ParamList("Key", "", "PROJ-1", "PROJ-2"))

	assert.Equal(t, `"Key": PROJ-1, PROJ-2`, b.Query())
}

func TestYandex_OperatorAndQuoting(t *testing.T) {
	b := NewBuilder(YandexSyntax{}).
		Add(Param("Updated", ">", "2024-01-01")).
		Add(Param("Summary", "", "sprint planning"))

	assert.Equal(t, `"Updated": >2024-01-01 AND "Summary": "sprint planning"`, b.Query())
}

func TestYandex_Sort(t *testing.T) {
	b := NewBuilder(YandexSyntax{}).
		Add(Param("Queue", "", "PROJ")).
		SortBy("Updated", "DESC")

	assert.Equal(t, `"Queue": PROJ "Sort by": Updated DESC`, b.Query())
}

func TestJQL_SingleValue(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).
		Add(Param("project", "=", "PROJ")).
		Add(Param("assignee", "=", "currentUser()"))

	assert.Equal(t, `project = "PROJ" AND assignee = currentUser()`, b.Query())
}

func TestJQL_MultiValueIn(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).
		Add(ParamList("key", "", "PROJ-1", "PROJ-2", "PROJ-3"))

	assert.Equal(t, `key in ("PROJ-1", "PROJ-2", "PROJ-3")`, b.Query())
}

func TestJQL_NotIn(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).
		Add(ParamList("status", "!=", "Closed", "Done"))

	assert.Equal(t, `status not in ("Closed", "Done")`, b.Query())
}

func TestJQL_OrderBy(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).
		Add(Param("project", "=", "PROJ")).
		SortBy("updated", "DESC")

	assert.Equal(t, `project = "PROJ" ORDER BY updated DESC`, b.Query())
}

func TestEmptyValuesOmitted(t *testing.T) {
	for _, s := range []Syntax{YandexSyntax{}, JQLSyntax{}} {
		b := NewBuilder(s).
			Add(Term{Name: "key"}). // zero values: dropped
			Add(Param("project", "=", "PROJ"))
		q := b.Query()
		assert.NotContains(t, q, "key")
		assert.Contains(t, q, "PROJ")
	}
}

func TestOrGroup(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).
		Add(Or(
			Param("assignee", "=", "currentUser()"),
			Param("reporter", "=", "currentUser()"),
		)).
		Add(Param("project", "=", "PROJ"))

	assert.Equal(t, `(assignee = currentUser() OR reporter = currentUser()) AND project = "PROJ"`, b.Query())
}

func TestGroupDropsEmptyClauses(t *testing.T) {
	g := Or(Term{Name: "key"}, Param("project", "=", "PROJ"))
	assert.Equal(t, `project = "PROJ"`, g.Render(JQLSyntax{}))
}

func TestSortOnly(t *testing.T) {
	b := NewBuilder(JQLSyntax{}).SortBy("created", "ASC")
	assert.Equal(t, "ORDER BY created ASC", b.Query())
}
