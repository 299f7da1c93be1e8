package karma

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"karmad/internal/errorlog"
	kerrors "karmad/internal/errors"
)

const validINI = `[DEFAULT]
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

[positive]
name = positive
range_min = 10
range_max = oo
enable_plus = true
enable_minus = true
plus_value = 2
minus_value = 2
day_max = oo
timeout = 30m
`

func writeRanges(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_INI(t *testing.T) {
	reg, err := Load(writeRanges(t, "karma.conf", validINI))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reg.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reg.Len())
	}

	r, err := reg.Lookup(0)
	if err != nil {
		t.Fatalf("Lookup(0) error = %v", err)
	}
	if r.Name != "neutral" || r.Timeout != 2*time.Hour {
		t.Errorf("Lookup(0) = %q timeout %v", r.Name, r.Timeout)
	}

	if r, _ := reg.Lookup(1e9); r.Name != "positive" {
		t.Errorf("Lookup(1e9) = %q, want positive", r.Name)
	}

	if def := reg.Default(); def.Name != "default" {
		t.Errorf("Default() = %q", def.Name)
	}
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	content := validINI + "\n[extra]\nname = extra\nrange_min = 100\nrange_max = 200\nenable_plus = yes\nenable_minus = no\nplus_value = 1\nminus_value = 1\nday_max = 1\ntimeout = 5s\nfuture_knob = whatever\n"
	reg, err := Load(writeRanges(t, "karma.conf", content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	r, err := reg.Lookup(150)
	if err != nil {
		t.Fatalf("Lookup(150) error = %v", err)
	}
	if r.Name != "extra" || !r.EnablePlus || r.EnableMinus {
		t.Errorf("extra tier = %+v", r)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	if !kerrors.IsCode(err, kerrors.ConfigNotFound) {
		t.Errorf("Load() error = %v, want CONFIG_NOT_FOUND", err)
	}
}

func TestLoad_MissingDefaultSection(t *testing.T) {
	content := `[only]
name = only
range_min = 0
range_max = 10
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 1
timeout = 5s
`
	_, err := Load(writeRanges(t, "karma.conf", content))
	if !kerrors.IsCode(err, kerrors.MissingField) {
		t.Errorf("Load() error = %v, want MISSING_FIELD for empty DEFAULT", err)
	}
}

func TestLoad_OverlapReported(t *testing.T) {
	content := `[DEFAULT]
name = default
range_min = -oo
range_max = oo
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = 1h

[a]
name = a
range_min = 0
range_max = 10
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 1
timeout = 5s

[b]
name = b
range_min = 5
range_max = 15
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 1
timeout = 5s
`
	rep := errorlog.NewMemory(10)
	_, err := LoadWithReporter(writeRanges(t, "karma.conf", content), rep)
	if !kerrors.IsCode(err, kerrors.OverlappingRanges) {
		t.Fatalf("Load() error = %v, want OVERLAPPING_RANGES", err)
	}
	if rep.Len() != 1 {
		t.Errorf("reporter entries = %d, want 1", rep.Len())
	}
}

func TestLoad_TOML(t *testing.T) {
	content := `[DEFAULT]
name = "default"
range_min = "-oo"
range_max = "oo"
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = "1h"

[neutral]
name = "neutral"
range_min = -9
range_max = 9
enable_plus = true
enable_minus = true
plus_value = 1
minus_value = 1
day_max = 10
timeout = "2h"

[positive]
name = "positive"
range_min = 10
range_max = "oo"
enable_plus = true
enable_minus = false
plus_value = 2
minus_value = 2
day_max = "oo"
timeout = "30m"
`
	reg, err := Load(writeRanges(t, "karma.toml", content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	r, err := reg.Lookup(10)
	if err != nil {
		t.Fatalf("Lookup(10) error = %v", err)
	}
	if r.Name != "positive" || r.Timeout != 30*time.Minute || r.EnableMinus {
		t.Errorf("positive tier = %+v", r)
	}
}

func TestLoad_MalformedINI(t *testing.T) {
	_, err := Load(writeRanges(t, "karma.conf", "[unclosed\nname no equals"))
	if !kerrors.IsCode(err, kerrors.InvalidValue) {
		t.Errorf("Load() error = %v, want INVALID_VALUE", err)
	}
}
