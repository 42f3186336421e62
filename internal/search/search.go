// Package search accumulates paged issue-search results across repeated
// fetches. Responses can resolve out of order relative to user input, so
// every commit is gated on whether its originating search term and fetch
// mode still match the accumulator's current state — a stale response is
// discarded, never cancelled.
package search

import (
	"sort"
	"strings"

	"tsheet/internal/models"
)

// Mode distinguishes the two mutually exclusive fetch modes: the user's own
// issues (no search term) and free-text search (term present).
type Mode int

const (
	ModeUserIssues Mode = iota
	ModeSearch
)

// Page is one page of tracker search results.
type Page struct {
	Issues     []models.Issue
	TotalPages int
}

// Accumulator holds the incremental search state. It is a plain
// single-goroutine value: callers serialize access the same way a UI event
// loop would.
type Accumulator struct {
	search     string
	page       int
	totalPages int
	issues     []models.Issue
	seen       map[string]bool
}

// New returns an empty accumulator positioned at page 1 of the
// user-issues mode.
func New() *Accumulator {
	return &Accumulator{page: 1, seen: make(map[string]bool)}
}

// Search returns the current search term.
func (a *Accumulator) Search() string { return a.search }

// Page returns the current page number.
func (a *Accumulator) Page() int { return a.page }

// Mode returns the fetch mode implied by the current search term.
func (a *Accumulator) Mode() Mode {
	if a.search == "" {
		return ModeUserIssues
	}
	return ModeSearch
}

// SetSearch changes the search term, resetting the page to 1 and clearing
// the accumulation before the next fetch resolves. Setting the same term
// again is a no-op.
func (a *Accumulator) SetSearch(term string) {
	if term == a.search {
		return
	}
	a.search = term
	a.page = 1
	a.totalPages = 0
	a.issues = nil
	a.seen = make(map[string]bool)
}

// Commit folds one page of results into the accumulation. The response's
// originating term and mode must still match the current state; otherwise
// the page is stale and dropped (returns false). Page 1 replaces the
// accumulation wholesale; later pages append, de-duplicated by issue key.
func (a *Accumulator) Commit(term string, mode Mode, page int, result Page) bool {
	if term != a.search || mode != a.Mode() {
		return false
	}

	if page == 1 {
		a.issues = nil
		a.seen = make(map[string]bool)
	}
	for _, is := range result.Issues {
		if a.seen[is.Key] {
			continue
		}
		a.seen[is.Key] = true
		a.issues = append(a.issues, is)
	}
	a.totalPages = result.TotalPages
	return true
}

// HasMore reports whether more pages exist for the current term.
func (a *Accumulator) HasMore() bool {
	return a.page < a.totalPages
}

// LoadMore advances to the next page if one exists. At the last page it is
// a no-op and returns false.
func (a *Accumulator) LoadMore() bool {
	if !a.HasMore() {
		return false
	}
	a.page++
	return true
}

// Issues returns the accumulated issues, exact key matches for the current
// search term first (case-insensitive). Relative order of non-matches is
// stable.
func (a *Accumulator) Issues() []models.Issue {
	out := make([]models.Issue, len(a.issues))
	copy(out, a.issues)
	if a.search == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return a.exactMatch(out[i]) && !a.exactMatch(out[j])
	})
	return out
}

func (a *Accumulator) exactMatch(is models.Issue) bool {
	return strings.EqualFold(is.Key, a.search)
}

// Options renders the accumulated issues as decorated autocomplete options.
// When no search is active and the accumulation has not loaded the
// currently selected issue, it is surfaced as a fallback option.
func (a *Accumulator) Options(selected *models.Issue) []models.SearchOption {
	issues := a.Issues()

	if selected != nil && a.search == "" && !a.seen[selected.Key] {
		issues = append(issues, *selected)
	}

	out := make([]models.SearchOption, 0, len(issues))
	for _, is := range issues {
		marker := "🔵"
		if a.search != "" && a.exactMatch(is) {
			marker = "🟢"
		}
		out = append(out, models.SearchOption{
			Label: marker + " " + is.Key + ": " + is.Summary,
			Value: is.Key,
		})
	}
	return out
}
