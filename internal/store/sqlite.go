package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"tsheet/internal/models"
	"tsheet/internal/workcal"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all DB access through Go's connection pool, preventing
	// "database is locked" errors from concurrent API requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Rules ---

func (s *SQLiteStore) CreateRule(ctx context.Context, r *models.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = newULID()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	condJSON, err := json.Marshal(r.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	actJSON, err := json.Marshal(r.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rules (id, name, description, conditions, actions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Description, string(condJSON), string(actJSON), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRule(ctx context.Context, id string) (*models.Rule, error) {
	r := &models.Rule{}
	var condJSON, actJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, conditions, actions, created_at, updated_at
		FROM rules WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Description, &condJSON, &actJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get rule: %w", err)
	}
	// Legacy rule JSON that fails to parse loads as an empty (never
	// matching) rule instead of erroring.
	_ = json.Unmarshal([]byte(condJSON), &r.Conditions)
	_ = json.Unmarshal([]byte(actJSON), &r.Actions)
	return r, nil
}

func (s *SQLiteStore) ListRules(ctx context.Context) ([]*models.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, conditions, actions, created_at, updated_at
		FROM rules ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Rule
	for rows.Next() {
		r := &models.Rule{}
		var condJSON, actJSON string
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &condJSON, &actJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		_ = json.Unmarshal([]byte(condJSON), &r.Conditions)
		_ = json.Unmarshal([]byte(actJSON), &r.Actions)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateRule(ctx context.Context, r *models.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()

	condJSON, err := json.Marshal(r.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	actJSON, err := json.Marshal(r.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE rules SET name = ?, description = ?, conditions = ?, actions = ?, updated_at = ?
		WHERE id = ?`,
		r.Name, r.Description, string(condJSON), string(actJSON), r.UpdatedAt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule not found: %s", r.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteRule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule not found: %s", id)
	}
	return nil
}

// --- Team ---

func (s *SQLiteStore) CreateMember(ctx context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = newULID()
	}
	m.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, uid, login, display, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UID, m.Login, m.Display, m.Email, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMemberByUID(ctx context.Context, uid int64) (*models.Member, error) {
	m := &models.Member{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, uid, login, display, email, created_at FROM members WHERE uid = ?`, uid,
	).Scan(&m.ID, &m.UID, &m.Login, &m.Display, &m.Email, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member not found: uid %d", uid)
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, login, display, email, created_at FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.UID, &m.Login, &m.Display, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member not found: %s", id)
	}
	return nil
}

// --- Tracks ---

func (s *SQLiteStore) UpsertTrack(ctx context.Context, t *models.Track, uid int64) error {
	if t.ID == "" {
		t.ID = newULID()
	}
	day := workcal.NormalizeDay(t.Start)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracks (id, issue_key, comment, start, start_day, duration, author_id, issue_summary, uid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			issue_key = excluded.issue_key,
			comment = excluded.comment,
			start = excluded.start,
			start_day = excluded.start_day,
			duration = excluded.duration,
			author_id = excluded.author_id,
			issue_summary = excluded.issue_summary,
			uid = excluded.uid`,
		t.ID, t.IssueKey, t.Comment, t.Start, day, t.Duration, t.AuthorID, t.IssueSummary, uid,
	)
	if err != nil {
		return fmt.Errorf("upsert track: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListTracks(ctx context.Context, filter TrackListFilter) ([]*models.TrackByUser, error) {
	q := `SELECT id, issue_key, comment, start, duration, author_id, issue_summary, uid FROM tracks WHERE 1=1`
	var args []any
	if filter.From != "" {
		q += ` AND start_day >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		q += ` AND start_day <= ?`
		args = append(args, filter.To)
	}
	if filter.IssueKey != "" {
		q += ` AND issue_key = ?`
		args = append(args, filter.IssueKey)
	}
	if filter.AuthorID != 0 {
		q += ` AND author_id = ?`
		args = append(args, filter.AuthorID)
	}
	q += ` ORDER BY start, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.TrackByUser
	for rows.Next() {
		t := &models.TrackByUser{}
		if err := rows.Scan(&t.ID, &t.IssueKey, &t.Comment, &t.Start, &t.Duration, &t.AuthorID, &t.IssueSummary, &t.UID); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteTrack(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("track not found: %s", id)
	}
	return nil
}
