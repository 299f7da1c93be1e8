// Package watcher provides polling-based change detection for the
// ranges configuration file.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ChangeHandler is called after a debounced content change.
type ChangeHandler func(path string)

// Config contains watcher configuration.
type Config struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	PollMs     int  `json:"pollMs" mapstructure:"poll_ms"`
	DebounceMs int  `json:"debounceMs" mapstructure:"debounce_ms"`
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		PollMs:     2000,
		DebounceMs: 500,
	}
}

// Watcher polls a single file and fires a handler when its content
// changes. Polling is used instead of fsnotify for simplicity and
// cross-platform compatibility; a content fingerprint filters out
// touch-only events that editors and sync tools produce.
type Watcher struct {
	config  Config
	path    string
	logger  *slog.Logger
	handler ChangeHandler

	debouncer *Debouncer
	lastHash  [blake2b.Size256]byte
	lastStat  fileStat

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// fileStat is the cheap first-pass change signal; the fingerprint is
// only recomputed when it moves.
type fileStat struct {
	size    int64
	modTime time.Time
}

// New creates a watcher for the given file.
func New(config Config, path string, logger *slog.Logger, handler ChangeHandler) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		config:    config,
		path:      path,
		logger:    logger,
		handler:   handler,
		debouncer: NewDebouncer(time.Duration(config.DebounceMs) * time.Millisecond),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins polling. It snapshots the current file state first so
// that only changes made after Start fire the handler.
func (w *Watcher) Start() error {
	if !w.config.Enabled {
		w.logger.Info("file watcher is disabled")
		return nil
	}

	w.mu.Lock()
	w.lastStat = w.readStat()
	w.lastHash = w.fingerprint()
	w.mu.Unlock()

	w.logger.Info("starting file watcher",
		"path", w.path,
		"pollMs", w.config.PollMs,
		"debounceMs", w.config.DebounceMs)

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops polling and waits for the poll goroutine to exit. Any
// pending debounced handler call is dropped.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
	w.debouncer.Cancel()
	w.logger.Info("file watcher stopped")
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pollInterval := time.Duration(w.config.PollMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.ctx.Done():
			return
		}
	}
}

// check runs one poll cycle: stat first, fingerprint only when the
// stat moved, debounce the handler when the content actually differs.
func (w *Watcher) check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.readStat()
	if current == w.lastStat {
		return
	}
	w.lastStat = current

	hash := w.fingerprint()
	if hash == w.lastHash {
		return
	}
	w.lastHash = hash

	w.debouncer.Trigger(func() {
		w.logger.Debug("content change detected", "path", w.path)
		if w.handler != nil {
			w.handler(w.path)
		}
	})
}

func (w *Watcher) readStat() fileStat {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileStat{}
	}
	return fileStat{size: info.Size(), modTime: info.ModTime()}
}

// fingerprint hashes the file content. A missing or unreadable file
// hashes to the zero value, which still registers as a change when the
// file later reappears.
func (w *Watcher) fingerprint() [blake2b.Size256]byte {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return [blake2b.Size256]byte{}
	}
	return blake2b.Sum256(data)
}
