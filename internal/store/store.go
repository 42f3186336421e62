package store

import (
	"context"

	"tsheet/internal/models"
)

// TrackListFilter specifies filters for listing cached tracks.
type TrackListFilter struct {
	From     string // YYYY-MM-DD inclusive, empty = unbounded
	To       string // YYYY-MM-DD inclusive, empty = unbounded
	IssueKey string
	AuthorID int64 // 0 = any
}

// RuleStore persists meeting classification rules.
type RuleStore interface {
	CreateRule(ctx context.Context, r *models.Rule) error
	GetRule(ctx context.Context, id string) (*models.Rule, error)
	ListRules(ctx context.Context) ([]*models.Rule, error)
	UpdateRule(ctx context.Context, r *models.Rule) error
	DeleteRule(ctx context.Context, id string) error
}

// TeamStore persists the team roster.
type TeamStore interface {
	CreateMember(ctx context.Context, m *models.Member) error
	GetMemberByUID(ctx context.Context, uid int64) (*models.Member, error)
	ListMembers(ctx context.Context) ([]*models.Member, error)
	DeleteMember(ctx context.Context, id string) error
}

// TrackStore caches fetched time tracks for offline reporting.
type TrackStore interface {
	UpsertTrack(ctx context.Context, t *models.Track, uid int64) error
	ListTracks(ctx context.Context, filter TrackListFilter) ([]*models.TrackByUser, error)
	DeleteTrack(ctx context.Context, id string) error
}

// Store is the persistence interface for tsheet. Rules and the team roster
// live behind explicit repositories rather than ad hoc client-side state,
// so the core engines stay agnostic of where their inputs come from.
type Store interface {
	RuleStore
	TeamStore
	TrackStore

	Migrate(ctx context.Context) error
	Close() error
}
