// Package reload holds the live registry and swaps it atomically when
// the ranges file is rebuilt.
package reload

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"

	"karmad/internal/errorlog"
	"karmad/internal/karma"
)

// Manager owns the currently active registry. Readers get the active
// registry lock-free; reloads build a full replacement off to the side
// and swap it in only when the rebuild succeeds. A failed rebuild
// leaves the previous registry serving.
type Manager struct {
	path     string
	logger   *slog.Logger
	reporter errorlog.Reporter

	current  atomic.Pointer[karma.Registry]
	mu       sync.Mutex
	lastHash [blake2b.Size256]byte
	loaded   bool
}

// NewManager creates a manager for the given ranges file. No registry
// is active until the first Load.
func NewManager(path string, logger *slog.Logger, reporter errorlog.Reporter) *Manager {
	if reporter == nil {
		reporter = errorlog.Discard
	}
	return &Manager{
		path:     path,
		logger:   logger,
		reporter: reporter,
	}
}

// Registry returns the active registry, or nil before the first
// successful Load.
func (m *Manager) Registry() *karma.Registry {
	return m.current.Load()
}

// Load rebuilds the registry from the ranges file and swaps it in on
// success. When the file content is byte-identical to the last
// successful load, the rebuild is skipped. Concurrent Loads are
// serialized; readers are never blocked.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hash [blake2b.Size256]byte
	hashed := false
	if data, err := os.ReadFile(m.path); err == nil {
		hash = blake2b.Sum256(data)
		hashed = true
		if m.loaded && hash == m.lastHash {
			m.logger.Debug("ranges file unchanged, keeping active registry", "path", m.path)
			return nil
		}
	}

	reg, err := karma.LoadWithReporter(m.path, m.reporter)
	if err != nil {
		m.logger.Error("registry rebuild rejected, previous configuration stays active",
			"path", m.path, "error", err)
		return err
	}

	m.current.Store(reg)
	if hashed {
		m.lastHash = hash
		m.loaded = true
	}
	m.logger.Info("registry swapped in", "path", m.path, "ranges", reg.Len())
	return nil
}
