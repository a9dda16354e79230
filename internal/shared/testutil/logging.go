// Package testutil provides shared test helpers. The log recorder lets
// tests assert on the run log, which is the tool's primary interface when
// it runs unattended.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log record
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that captures records in memory. Attrs
// attached with Logger.With are merged into every captured entry, so
// run_id and other contextual attributes are visible to assertions.
type LogRecorder struct {
	mu      sync.Mutex
	entries []Entry
	base    []slog.Attr
	parent  *LogRecorder
}

// NewLogRecorder creates a recorder and a logger writing to it
func NewLogRecorder() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(rec), rec
}

// CaptureLogs installs a recording logger as the process default for the
// duration of the test. Components that resolve their logger lazily pick
// it up; the previous default is restored on cleanup.
func CaptureLogs(t *testing.T) *LogRecorder {
	t.Helper()

	logger, rec := NewLogRecorder()
	prev := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(prev) })

	return rec
}

// Enabled captures every level
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, record slog.Record) error {
	attrs := make(map[string]any, record.NumAttrs()+len(r.base))
	for _, a := range r.base {
		attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.entries = append(root.entries, Entry{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})

	return nil
}

// WithAttrs returns a child handler whose records still land in the
// original recorder.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	base := make([]slog.Attr, 0, len(r.base)+len(attrs))
	base = append(base, r.base...)
	base = append(base, attrs...)
	return &LogRecorder{base: base, parent: r.root()}
}

// WithGroup flattens groups; the tests here assert on keys, not nesting
func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

func (r *LogRecorder) root() *LogRecorder {
	if r.parent != nil {
		return r.parent
	}
	return r
}

// Entries returns a copy of everything captured so far
func (r *LogRecorder) Entries() []Entry {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	out := make([]Entry, len(root.entries))
	copy(out, root.entries)
	return out
}

// Has reports whether a record at the level contains the message fragment
func (r *LogRecorder) Has(level slog.Level, fragment string) bool {
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

// Find returns the first record at the level containing the fragment
func (r *LogRecorder) Find(level slog.Level, fragment string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.Message, fragment) {
			return e, true
		}
	}
	return Entry{}, false
}

// CountLevel returns how many records were captured at the level
func (r *LogRecorder) CountLevel(level slog.Level) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
