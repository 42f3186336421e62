package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tsheet/internal/aggregate"
	"tsheet/internal/models"
)

func TestUserHeaders(t *testing.T) {
	res := aggregate.ByIssueResult{UserIDs: []int64{100, 200}}
	displays := map[int64]string{100: "Alice"}

	headers := userHeaders(res, displays)
	assert.Equal(t, []string{"Alice", "200"}, headers, "missing display falls back to uid")
}

func TestRowCells(t *testing.T) {
	row := models.IssueSummaryRow{
		IssueKey: "PROJ-1",
		Users: map[int64]models.BusinessDuration{
			100: {Hours: 2, Minutes: 30},
		},
		Total: models.BusinessDuration{Hours: 2, Minutes: 30},
	}

	cells := rowCells(row, []int64{100, 200})
	assert.Equal(t, []string{"2h 30m", "", "2h 30m"}, cells, "non-contributors render empty")
}
