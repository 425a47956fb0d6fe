package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobcast/internal/model"
)

// Ensure SQLiteStore implements model.JobStore.
var _ model.JobStore = (*SQLiteStore)(nil)

// SQLiteStore tracks delivered apply links in a SQLite database so a posting
// is announced once even when later searches return it again.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// seen_postings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_postings (
		apply_link TEXT PRIMARY KEY,
		first_seen INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_postings table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// HasSeen returns true if the given apply link has already been recorded.
func (s *SQLiteStore) HasSeen(link string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_postings WHERE apply_link = ?", link).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", link, err)
	}
	return true, nil
}

// MarkSeen records an apply link as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(link string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_postings (apply_link, first_seen) VALUES (?, ?)",
		link, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("marking %s as seen: %w", link, err)
	}
	return nil
}

// Cleanup deletes entries first seen longer ago than olderThan.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).Unix()
	_, err := s.db.Exec("DELETE FROM seen_postings WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up postings older than %v: %w", olderThan, err)
	}
	return nil
}

// Count returns the number of recorded apply links.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen_postings").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen postings: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
