package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const link = "https://www.linkedin.com/jobs/view/123"

func TestMarkSeenThenHasSeen(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen(link); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	seen, err := s.HasSeen(link)
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if !seen {
		t.Error("expected HasSeen to return true after MarkSeen")
	}
}

func TestHasSeenUnknownReturnsFalse(t *testing.T) {
	s := newTestStore(t)

	seen, err := s.HasSeen("https://www.linkedin.com/jobs/view/404")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Error("expected HasSeen to return false for unknown link")
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen(link); err != nil {
		t.Fatalf("first MarkSeen: %v", err)
	}
	if err := s.MarkSeen(link); err != nil {
		t.Fatalf("second MarkSeen (duplicate): %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	// Record an "old" link two days back.
	s.now = func() time.Time { return now.Add(-48 * time.Hour) }
	if err := s.MarkSeen("old-link"); err != nil {
		t.Fatalf("MarkSeen old: %v", err)
	}

	s.now = func() time.Time { return now }
	if err := s.MarkSeen("fresh-link"); err != nil {
		t.Fatalf("MarkSeen fresh: %v", err)
	}

	// Cleanup anything older than 24 hours.
	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	seen, err := s.HasSeen("old-link")
	if err != nil {
		t.Fatalf("HasSeen old: %v", err)
	}
	if seen {
		t.Error("expected old link to be cleaned up")
	}

	seen, err = s.HasSeen("fresh-link")
	if err != nil {
		t.Fatalf("HasSeen fresh: %v", err)
	}
	if !seen {
		t.Error("expected fresh link to survive cleanup")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.MarkSeen(link); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	s.Close()

	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if seen, _ := s2.HasSeen(link); !seen {
		t.Error("expected link to persist across reopen")
	}
}

func TestNopStoreNeverSeen(t *testing.T) {
	s := NewNopStore()
	if err := s.MarkSeen(link); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen, _ := s.HasSeen(link); seen {
		t.Error("NopStore should never report a link as seen")
	}
}
