package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsheet/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Migrate(ctx)
	assert.NoError(t, err)
}

// --- Rule CRUD ---

func testRule(name string) *models.Rule {
	return &models.Rule{
		Name:        name,
		Description: "skip short meetings",
		Conditions: []models.Condition{
			{Field: models.FieldDuration, Operator: models.OpLess, Value: "30m"},
		},
		Actions: []models.Action{
			{Type: models.ActionSkip, Value: "true"},
		},
	}
}

func TestRuleCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := testRule("short meetings")
	err := s.CreateRule(ctx, r)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetRule(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, got.Name)
	require.Len(t, got.Conditions, 1)
	assert.Equal(t, models.FieldDuration, got.Conditions[0].Field)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, models.ActionSkip, got.Actions[0].Type)

	got.Description = "updated"
	err = s.UpdateRule(ctx, got)
	require.NoError(t, err)

	got2, err := s.GetRule(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got2.Description)

	err = s.DeleteRule(ctx, r.ID)
	require.NoError(t, err)

	_, err = s.GetRule(ctx, r.ID)
	assert.Error(t, err)
}

func TestCreateRule_RejectsDuplicateActionTypes(t *testing.T) {
	s := newTestStore(t)

	r := testRule("bad")
	r.Actions = append(r.Actions, models.Action{Type: models.ActionSkip, Value: "true"})
	err := s.CreateRule(context.Background(), r)
	assert.Error(t, err)
}

func TestListRules_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRule(ctx, testRule("first")))
	require.NoError(t, s.CreateRule(ctx, testRule("second")))

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "first", rules[0].Name)
	assert.Equal(t, "second", rules[1].Name)
}

// --- Team CRUD ---

func TestMemberCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := &models.Member{UID: 100, Login: "alice", Display: "Alice"}
	err := s.CreateMember(ctx, m)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	got, err := s.GetMemberByUID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Login)

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	err = s.DeleteMember(ctx, m.ID)
	require.NoError(t, err)

	_, err = s.GetMemberByUID(ctx, 100)
	assert.Error(t, err)
}

func TestCreateMember_DuplicateUID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMember(ctx, &models.Member{UID: 1, Login: "a"}))
	err := s.CreateMember(ctx, &models.Member{UID: 1, Login: "b"})
	assert.Error(t, err)
}

// --- Tracks ---

func TestTrackUpsertAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tr := &models.Track{
		ID:       "w-1",
		IssueKey: "PROJ-1",
		Start:    "2024-03-06T10:00:00+03:00",
		Duration: "PT2H",
	}
	require.NoError(t, s.UpsertTrack(ctx, tr, 100))

	// Upsert with the same id replaces.
	tr.Duration = "PT3H"
	require.NoError(t, s.UpsertTrack(ctx, tr, 100))

	got, err := s.ListTracks(ctx, TrackListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PT3H", got[0].Duration)
	assert.Equal(t, int64(100), got[0].UID)
}

func TestListTracks_DayRangeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	days := []string{"2024-03-01", "2024-03-06", "2024-03-20"}
	for i, d := range days {
		tr := &models.Track{
			ID:       d,
			IssueKey: "PROJ-1",
			Start:    d + "T09:00:00+03:00",
			Duration: "PT1H",
		}
		require.NoError(t, s.UpsertTrack(ctx, tr, int64(i)))
	}

	got, err := s.ListTracks(ctx, TrackListFilter{From: "2024-03-02", To: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-06", got[0].ID)
}

func TestDeleteTrack_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteTrack(context.Background(), "missing")
	assert.Error(t, err)
}
