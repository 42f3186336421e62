// Package tracker holds thin HTTP clients for the issue trackers tsheet
// can pull issues and worklogs from. Both clients normalize responses into
// the common models.Issue / models.Track shapes; query strings come from
// internal/query.
package tracker

import (
	"context"

	"tsheet/internal/models"
	"tsheet/internal/search"
)

// PageSize is the number of issues requested per search page.
const PageSize = 50

// Client is the capability both tracker clients implement.
type Client interface {
	// SearchIssues runs a free-text issue search, one page at a time.
	SearchIssues(ctx context.Context, text string, page int) (search.Page, error)
	// UserIssues lists issues assigned to the authenticated user.
	UserIssues(ctx context.Context, page int) (search.Page, error)
	// GetIssue fetches a single issue by key.
	GetIssue(ctx context.Context, key string) (*models.Issue, error)
	// Worklogs fetches the time tracks logged between two dates
	// (YYYY-MM-DD, inclusive).
	Worklogs(ctx context.Context, from, to string) ([]models.Track, error)
}

func totalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
