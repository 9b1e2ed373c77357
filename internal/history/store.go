// Package history keeps a SQLite journal of successful form submissions.
// The journal is append-only from the form's point of view; a live form is
// never restored from it.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AntoineGS/dynform/internal/form"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// Submission is one journaled successful submit.
type Submission struct {
	SubmittedAt time.Time
	UUID        string
	Title       string
	Message     string
	Host        string
	Rows        []form.Row
	ID          int64
}

// Store manages the SQLite submission journal.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a submission and its rows in one transaction and returns the
// new record id.
func (s *Store) Record(ctx context.Context, sub Submission) (int64, error) {
	if sub.UUID == "" {
		return 0, fmt.Errorf("recording submission: %w", ErrMissingUUID)
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning record: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO submissions (uuid, title, message, host, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`, sub.UUID, sub.Title, sub.Message, sub.Host, sub.SubmittedAt.UTC().Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return 0, fmt.Errorf("saving submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return 0, fmt.Errorf("reading submission id: %w", err)
	}

	for pos, r := range sub.Rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submission_rows (submission_id, position, row_id, text, category)
			VALUES (?, ?, ?, ?, ?)
		`, id, pos, r.ID, r.Text, string(r.Category)); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return 0, fmt.Errorf("saving row %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing submission: %w", err)
	}

	return id, nil
}

// List returns up to limit submissions, newest first, with their rows.
func (s *Store) List(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uuid, title, message, host, submitted_at
		FROM submissions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck,gosec // defer close is best-effort

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var submittedAt string

		if err := rows.Scan(&sub.ID, &sub.UUID, &sub.Title, &sub.Message, &sub.Host, &submittedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}

		sub.SubmittedAt, err = parseTime(submittedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing submitted_at: %w", err)
		}

		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}

	for i := range subs {
		subs[i].Rows, err = s.loadRows(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return subs, nil
}

// Get returns the submission with the given uuid, or nil if none exists.
func (s *Store) Get(ctx context.Context, uuid string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uuid, title, message, host, submitted_at
		FROM submissions
		WHERE uuid = ?
	`, uuid)

	var sub Submission
	var submittedAt string

	err := row.Scan(&sub.ID, &sub.UUID, &sub.Title, &sub.Message, &sub.Host, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil means "not found", distinct from error
	}
	if err != nil {
		return nil, fmt.Errorf("querying submission %s: %w", uuid, err)
	}

	sub.SubmittedAt, err = parseTime(submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing submitted_at: %w", err)
	}

	sub.Rows, err = s.loadRows(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (s *Store) loadRows(ctx context.Context, submissionID int64) ([]form.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, text, category
		FROM submission_rows
		WHERE submission_id = ?
		ORDER BY position
	`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("querying rows of submission %d: %w", submissionID, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck,gosec // defer close is best-effort

	var out []form.Row
	for rows.Next() {
		var r form.Row
		var category string
		if err := rows.Scan(&r.ID, &r.Text, &category); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Category = form.Category(category)
		out = append(out, r)
	}

	return out, rows.Err()
}

// Count returns the number of journaled submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

// Prune keeps only the keepN most recent submissions. keepN <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keepN int) error {
	if keepN <= 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning prune: %w", err)
	}

	const stale = `SELECT id FROM submissions ORDER BY id DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM submission_rows WHERE submission_id IN (`+stale+`)`, keepN); err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return fmt.Errorf("pruning rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE id IN (`+stale+`)`, keepN); err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return fmt.Errorf("pruning submissions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing prune: %w", err)
	}

	return nil
}

// migrate runs schema migrations.
func (s *Store) migrate(ctx context.Context) error {
	currentVersion := s.getSchemaVersion(ctx)

	migrations := []func(context.Context, *sql.Tx) error{
		migrateV1,
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if err := migrations[i](ctx, tx); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort on migration failure
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("updating schema version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("inserting schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if the schema_version table doesn't exist.
func (s *Store) getSchemaVersion(ctx context.Context) int {
	var tableName string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&tableName)
	if err != nil {
		return 0
	}

	var version int
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version); err != nil {
		return 0
	}

	return version
}

// parseTime parses a timestamp string from SQLite, trying multiple formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

// migrateV1 creates the initial schema.
func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid         TEXT NOT NULL UNIQUE,
			title        TEXT NOT NULL,
			message      TEXT NOT NULL,
			host         TEXT NOT NULL,
			submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS submission_rows (
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			position      INTEGER NOT NULL,
			row_id        INTEGER NOT NULL,
			text          TEXT NOT NULL,
			category      TEXT NOT NULL,
			PRIMARY KEY (submission_id, position)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}
