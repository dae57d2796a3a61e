// Package journal persists event transitions to a local SQLite database.
// It backs the history command and the daemon's activity log. Appends are
// best-effort: the scheduler drops journal errors rather than letting
// bookkeeping interfere with a power action.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record kinds written by the scheduler.
const (
	KindScheduled = "scheduled"
	KindExecuted  = "executed"
	KindCanceled  = "canceled"
	KindFailed    = "failed"
)

// Record is one journal row.
type Record struct {
	ID      int64
	EventID int64
	Action  string
	Kind    string
	At      time.Time
	Detail  string
}

// Store provides SQLite-backed persistence for the event journal.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path and applies
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Append inserts one journal row. The record's At field is used as the
// row timestamp when set; otherwise the current time is recorded.
func (s *Store) Append(r Record) error {
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO journal (event_id, action, kind, at, detail) VALUES (?, ?, ?, ?, ?)`,
		r.EventID, r.Action, r.Kind, at.UTC().Format(time.RFC3339Nano), r.Detail,
	)
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first. A non-positive limit
// returns the default window of 20 rows.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, event_id, action, kind, at, detail FROM journal ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var at string
		if err := rows.Scan(&r.ID, &r.EventID, &r.Action, &r.Kind, &at, &r.Detail); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("journal: parse timestamp %q: %w", at, err)
		}
		r.At = t
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
