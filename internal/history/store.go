// Package history records controller state transitions in a small SQLite
// database so `caffeine8 history` can show what the daemon has been doing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver for database/sql
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite for cross-platform compatibility
)

const schema = `
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	state TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 0,
	message TEXT
);

CREATE INDEX IF NOT EXISTS idx_transitions_recorded_at ON transitions(recorded_at);
`

// Transition is one recorded controller state change.
type Transition struct {
	ID      int64
	At      time.Time
	State   string
	Active  bool
	Message string
}

// Store is an append-only transition log. All failures are expected to be
// treated as non-fatal by callers; the daemon keeps running without history.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (creating if needed) the history database at path and applies
// retention: rows older than retentionDays are dropped, and the table is
// trimmed to maxEntries. Zero values disable the respective limit.
func Open(path string, maxEntries, retentionDays int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.prune(retentionDays); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Record appends one transition row.
func (s *Store) Record(ctx context.Context, state string, active bool, message string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transitions (state, active, message) VALUES (?, ?, ?)",
		state, boolToInt(active), message,
	)
	return err
}

// Recent returns the newest transitions, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, recorded_at, state, active, message FROM transitions ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		var active int
		var message sql.NullString
		if err := rows.Scan(&t.ID, &t.At, &t.State, &active, &message); err != nil {
			return nil, err
		}
		t.Active = active != 0
		t.Message = message.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) prune(retentionDays int) error {
	if retentionDays > 0 {
		cutoff := fmt.Sprintf("-%d days", retentionDays)
		if _, err := s.db.Exec(
			"DELETE FROM transitions WHERE recorded_at < datetime('now', ?)", cutoff,
		); err != nil {
			return fmt.Errorf("failed to prune history by age: %w", err)
		}
	}
	if s.maxEntries > 0 {
		if _, err := s.db.Exec(
			"DELETE FROM transitions WHERE id NOT IN (SELECT id FROM transitions ORDER BY id DESC LIMIT ?)",
			s.maxEntries,
		); err != nil {
			return fmt.Errorf("failed to prune history by count: %w", err)
		}
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
