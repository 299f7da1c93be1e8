package reload

import (
	"os"
	"path/filepath"
	"testing"

	"karmad/internal/errorlog"
	kerrors "karmad/internal/errors"
	"karmad/internal/slogutil"
)

const validRanges = `[DEFAULT]
name = default
range_min = -oo
range_max = oo
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = 1h

[toxic]
name = toxic
range_min = -oo
range_max = -10
enable_plus = true
enable_minus = false
plus_value = 1
minus_value = 1
day_max = 5
timeout = 1d

[neutral]
name = neutral
range_min = -9
range_max = 9
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = 2h
`

// overlappingRanges makes neutral collide with an added tier.
const overlappingRanges = validRanges + `
[clashing]
name = clashing
range_min = 5
range_max = 20
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = 2h
`

func writeRanges(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestManager(t *testing.T, content string) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "karma.conf")
	writeRanges(t, path, content)
	return NewManager(path, slogutil.NewDiscardLogger(), errorlog.Discard), path
}

func TestManager_RegistryNilBeforeLoad(t *testing.T) {
	m, _ := newTestManager(t, validRanges)
	if m.Registry() != nil {
		t.Error("registry should be nil before the first Load")
	}
}

func TestManager_LoadActivatesRegistry(t *testing.T) {
	m, _ := newTestManager(t, validRanges)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	reg := m.Registry()
	if reg == nil {
		t.Fatal("registry not active after successful Load")
	}
	r, err := reg.Lookup(-50)
	if err != nil {
		t.Fatalf("Lookup(-50) error = %v", err)
	}
	if r.Name != "toxic" {
		t.Errorf("Lookup(-50) = %q, want toxic", r.Name)
	}
}

func TestManager_RejectedRebuildKeepsPrevious(t *testing.T) {
	m, path := newTestManager(t, validRanges)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	before := m.Registry()

	writeRanges(t, path, overlappingRanges)
	err := m.Load()
	if !kerrors.IsCode(err, kerrors.OverlappingRanges) {
		t.Fatalf("Load() error = %v, want OVERLAPPING_RANGES", err)
	}

	if m.Registry() != before {
		t.Error("rejected rebuild must leave the previous registry active")
	}
	if r, err := m.Registry().Lookup(0); err != nil || r.Name != "neutral" {
		t.Errorf("Lookup(0) = %v, %v after rejected rebuild", r, err)
	}
}

func TestManager_RecoversAfterRejection(t *testing.T) {
	m, path := newTestManager(t, validRanges)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	writeRanges(t, path, overlappingRanges)
	if err := m.Load(); err == nil {
		t.Fatal("expected rejection for overlapping ranges")
	}

	writeRanges(t, path, validRanges)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() after fix error = %v", err)
	}
	if r, err := m.Registry().Lookup(-50); err != nil || r.Name != "toxic" {
		t.Errorf("Lookup(-50) = %v, %v after recovery", r, err)
	}
}

func TestManager_UnchangedContentSkipsRebuild(t *testing.T) {
	m, path := newTestManager(t, validRanges)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	before := m.Registry()

	// Fresh mtime, same bytes.
	writeRanges(t, path, validRanges)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Registry() != before {
		t.Error("unchanged content should keep the same registry instance")
	}
}

func TestManager_MissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent.conf"),
		slogutil.NewDiscardLogger(), errorlog.Discard)

	err := m.Load()
	if !kerrors.IsCode(err, kerrors.ConfigNotFound) {
		t.Fatalf("Load() error = %v, want CONFIG_NOT_FOUND", err)
	}
	if m.Registry() != nil {
		t.Error("registry should stay nil when the file is missing")
	}
}

func TestManager_FailuresReachReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "karma.conf")
	writeRanges(t, path, overlappingRanges)

	mem := errorlog.NewMemory(10)
	m := NewManager(path, slogutil.NewDiscardLogger(), mem)

	if err := m.Load(); err == nil {
		t.Fatal("expected rejection for overlapping ranges")
	}
	if mem.Len() == 0 {
		t.Error("build failure should be reported to the error log")
	}
}
