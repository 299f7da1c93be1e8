package slogutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// RotatingFile implements io.WriteCloser with size-based rotation.
// It rotates log files when they exceed maxSize bytes, keeping up to
// maxBackups rotated files. Rotated backups are gzipped when compression
// is enabled (log.1.gz, log.2.gz, ...), mirroring logrotate behavior.
type RotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int
	compress   bool
	file       *os.File
	size       int64
	mu         sync.Mutex
}

// OpenRotatingFile opens a file with rotation support.
// If maxSize is 0, rotation is disabled.
// If maxBackups is 0, old rotated files are deleted immediately.
func OpenRotatingFile(path string, maxSize int64, maxBackups int, compress bool) (*RotatingFile, error) {
	rf := &RotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
		compress:   compress,
	}

	if err := rf.openFile(); err != nil {
		return nil, err
	}

	return rf, nil
}

// openFile opens or creates the log file and gets its current size
func (r *RotatingFile) openFile() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}

	r.file = f
	r.size = info.Size()
	return nil
}

// Write implements io.Writer. It rotates the file if needed before writing.
func (r *RotatingFile) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.size+int64(len(p)) > r.maxSize {
		// A failed rotation must not lose the record; write to the
		// oversized file instead.
		_ = r.rotate()
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close implements io.Closer
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// rotate performs the rotation: log -> log.1(.gz) -> log.2(.gz) -> ...
func (r *RotatingFile) rotate() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
	}

	// Shift existing backups up one slot, dropping the oldest.
	for i := r.maxBackups; i >= 1; i-- {
		oldPath := r.backupPath(i)
		newPath := r.backupPath(i + 1)

		if i == r.maxBackups {
			_ = os.Remove(oldPath)
		} else {
			if _, err := os.Stat(oldPath); err == nil {
				_ = os.Rename(oldPath, newPath)
			}
		}
	}

	if r.maxBackups > 0 {
		if r.compress {
			// Compress into the .1 slot, then drop the original. On
			// compression failure fall back to a plain rename so the
			// data survives.
			if err := gzipFile(r.path, r.backupPath(1)); err == nil {
				_ = os.Remove(r.path)
			} else {
				_ = os.Rename(r.path, strings.TrimSuffix(r.backupPath(1), ".gz"))
			}
		} else {
			_ = os.Rename(r.path, r.backupPath(1))
		}
	} else {
		_ = os.Remove(r.path)
	}

	r.size = 0
	return r.openFile()
}

// backupPath returns the path for a backup file (e.g., log.1 or log.1.gz)
func (r *RotatingFile) backupPath(n int) string {
	if r.compress {
		return fmt.Sprintf("%s.%d.gz", r.path, n)
	}
	return fmt.Sprintf("%s.%d", r.path, n)
}

// gzipFile compresses src into dst.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ParseSize parses a size string like "10MB", "1GB", "500KB" into bytes.
// Supported suffixes: B, KB, MB, GB (case-insensitive)
// Returns 0 for empty or invalid strings.
func ParseSize(s string) int64 {
	if s == "" {
		return 0
	}

	s = strings.TrimSpace(strings.ToUpper(s))

	re := regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(B|KB|MB|GB)?$`)
	matches := re.FindStringSubmatch(s)
	if matches == nil {
		return 0
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}

	suffix := matches[2]
	if suffix == "" {
		suffix = "B"
	}

	var multiplier float64
	switch suffix {
	case "B":
		multiplier = 1
	case "KB":
		multiplier = 1024
	case "MB":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0
	}

	return int64(value * multiplier)
}

// NewFileLoggerWithRotation creates a rotating file logger.
// Uses the provided maxSize (e.g., "10MB"), maxBackups, and compression
// settings. If maxSize is empty or invalid, falls back to a plain file logger.
func NewFileLoggerWithRotation(path string, level slog.Level, maxSize string, maxBackups int, compress bool) (*slog.Logger, io.Closer, error) {
	size := ParseSize(maxSize)
	if size <= 0 {
		return NewFileLogger(path, level)
	}

	rf, err := OpenRotatingFile(path, size, maxBackups, compress)
	if err != nil {
		return nil, nil, err
	}

	return NewLogger(rf, level), rf, nil
}
