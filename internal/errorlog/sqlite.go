package errorlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store is a Reporter backed by a SQLite database, so diagnostics
// survive process exit and can be inspected after the fact.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex

	// Injectable clock for testing.
	now func() time.Time
}

// StorePath returns the database location under a config directory.
func StorePath(dir string) string {
	return filepath.Join(dir, ".karmad", "errors.db")
}

// OpenStore opens or creates the diagnostics database at path,
// creating parent directories and the schema as needed.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS diagnostics (
		id      TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_diagnostics_at ON diagnostics(at);`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Report records a diagnostic. The Reporter interface has no error
// return; a failed insert is dropped, matching Memory under allocation
// failure. Validating components must not fail because the error log is
// unwritable.
func (s *Store) Report(name, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.conn.Exec(
		"INSERT INTO diagnostics (id, name, details, at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), name, details, s.now().UTC().Format(time.RFC3339Nano))
}

// Recent returns up to n entries, newest last. n <= 0 returns all.
func (s *Store) Recent(n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT id, name, details, at FROM diagnostics ORDER BY at DESC, id"
	args := []interface{}{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.Name, &e.Details, &at); err != nil {
			return nil, err
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp in diagnostics row %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query walks newest first for the LIMIT; callers get newest last.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Clear drops all recorded entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec("DELETE FROM diagnostics")
	return err
}

// Len returns the number of recorded entries.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM diagnostics").Scan(&n)
	return n, err
}
