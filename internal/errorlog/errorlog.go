// Package errorlog provides an injectable diagnostic sink. Components that
// validate configuration report failures here so operators can inspect them
// after the fact without digging through log files.
package errorlog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded diagnostic.
type Entry struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Details string    `json:"details"`
	At      time.Time `json:"at"`
}

// Reporter receives diagnostics from validating components.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(name, details string)
}

// Discard is a Reporter that drops everything. Used when no sink is injected.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(string, string) {}

// Memory is an in-memory Reporter keeping the most recent entries.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	max     int

	// Injectable clock for testing.
	now func() time.Time
}

// NewMemory creates an in-memory reporter holding up to max entries.
// Older entries are evicted first. max <= 0 means unbounded.
func NewMemory(max int) *Memory {
	return &Memory{max: max, now: time.Now}
}

// Report records a diagnostic with a fresh id.
func (m *Memory) Report(name, details string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		ID:      uuid.NewString(),
		Name:    name,
		Details: details,
		At:      m.now(),
	})
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
}

// Recent returns up to n entries, newest last. n <= 0 returns all.
func (m *Memory) Recent(n int) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := 0
	if n > 0 && len(m.entries) > n {
		start = len(m.entries) - n
	}
	out := make([]Entry, len(m.entries)-start)
	copy(out, m.entries[start:])
	return out
}

// Clear drops all recorded entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
