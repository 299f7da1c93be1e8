package errorlog

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Report(t *testing.T) {
	s := openTestStore(t, StorePath(t.TempDir()))
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	s.Report("parse failure", "section enthusiast: missing timeout")

	entries, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Recent() len = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("entry should have a generated id")
	}
	if e.Name != "parse failure" || e.Details != "section enthusiast: missing timeout" {
		t.Errorf("entry = %+v", e)
	}
	if !e.At.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("At = %v", e.At)
	}
}

func TestStore_RecentOrderAndLimit(t *testing.T) {
	s := openTestStore(t, StorePath(t.TempDir()))
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		i := i
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		s.Report("e"+string(rune('0'+i)), "")
	}

	entries, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Newest last, like Memory.
	if entries[0].Name != "e2" || entries[1].Name != "e3" {
		t.Errorf("Recent(2) = %q, %q; want e2, e3", entries[0].Name, entries[1].Name)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := StorePath(t.TempDir())

	s, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Report("overlapping ranges", `ranges "a" and "b" overlap`)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openTestStore(t, path)
	n, err := reopened.Len()
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Len() after reopen = %d, want 1", n)
	}
	entries, err := reopened.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Name != "overlapping ranges" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t, StorePath(t.TempDir()))
	s.Report("x", "")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	n, err := s.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Len() after Clear = %d", n)
	}
}

func TestStore_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", ".karmad", "errors.db")
	s := openTestStore(t, path)

	s.Report("y", "")
	n, err := s.Len()
	if err != nil || n != 1 {
		t.Errorf("Len() = %d, %v", n, err)
	}
}
