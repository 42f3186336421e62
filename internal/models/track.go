package models

// Track is a single logged time entry against a tracker issue.
// Tracks are immutable once fetched into the aggregation pipeline;
// aggregation never mutates its inputs.
type Track struct {
	ID           string `json:"id"`
	IssueKey     string `json:"issueKey"`
	Comment      string `json:"comment,omitempty"`
	Start        string `json:"start"`    // ISO timestamp
	Duration     string `json:"duration"` // ISO-8601 duration, empty = none recorded
	AuthorID     int64  `json:"authorId,omitempty"`
	IssueSummary string `json:"issueSummary,omitempty"`
}

// TrackByUser is a Track joined with team-member identity, the input
// shape for aggregation.
type TrackByUser struct {
	Track
	UID     int64  `json:"uid"`
	Display string `json:"display,omitempty"`
}

// IssueSummaryRow is one aggregated row per distinct issue key. Users holds
// an entry only for users with at least one parseable duration on the issue;
// zero contributors are absent, not zero-valued. Total is computed by summing
// every known user's per-issue duration, independent of insertion order.
type IssueSummaryRow struct {
	IssueKey     string                     `json:"issueKey"`
	IssueSummary string                     `json:"issueSummary"`
	Users        map[int64]BusinessDuration `json:"users"`
	Total        BusinessDuration           `json:"total"`
}

// DaySummary is one user's logged total for a single calendar day compared
// against the expected-hours calendar.
type DaySummary struct {
	Day      string           `json:"day"` // YYYY-MM-DD
	Logged   BusinessDuration `json:"logged"`
	Expected int              `json:"expected"` // hours
}
