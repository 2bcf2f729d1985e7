// Package audit wraps every tool handler dispatch with a recorded entry
// of {action, arguments, result|error, durationMs, timestamp} (§4.G).
// Grounded on the teacher's slog usage throughout internal/engine and
// cmd/worldsim/main.go ("database opened", "generating world map...") for
// the human-facing log line, whose duration figures are formatted with
// go-humanize (teacher go.mod, unwired by teacher code).
package audit

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/tobyjaguar/rpgkernel/internal/kernelerr"
)

// Clock supplies monotonically increasing timestamps. The kernel's
// simulation clock (internal/kernel.Clock) is the production
// implementation; replay reconstructs one seeded identically so audit
// timestamps never depend on wall-clock time (§4.G).
type Clock interface {
	Now() int64
}

// Entry is one recorded handler dispatch (§4.G).
type Entry struct {
	Action       string
	Arguments    any
	Result       any
	ErrorKind    string
	ErrorMessage string
	DurationMs   int64
	Timestamp    int64
}

// Log accumulates Entries and mirrors each dispatch to slog. Logging
// failure never affects the dispatch result (§4.G: "Logging failure does
// not affect the dispatch result") because Wrap only logs after fn has
// already returned.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	clock   Clock
	logger  *slog.Logger
}

// NewLog builds an empty Log. A nil logger falls back to slog.Default().
func NewLog(clock Clock, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{clock: clock, logger: logger}
}

// Wrap records {action, arguments} before dispatch and appends
// {result|error, durationMs, timestamp} on return (§4.G). Handlers catch
// no domain error locally (§7 Propagation); Wrap is where a typed
// kernelerr.Error's Kind is captured for the audit trail.
func (l *Log) Wrap(action string, arguments any, fn func() (any, error)) (any, error) {
	start := l.clock.Now()
	l.mu.Lock()
	idx := len(l.entries)
	l.entries = append(l.entries, Entry{Action: action, Arguments: arguments, Timestamp: start})
	l.mu.Unlock()

	result, err := fn()
	end := l.clock.Now()

	entry := Entry{
		Action:     action,
		Arguments:  arguments,
		DurationMs: end - start,
		Timestamp:  start,
	}
	if err != nil {
		kind, ok := kernelerr.KindOf(err)
		if !ok {
			kind = kernelerr.Kind("Unknown")
		}
		entry.ErrorKind = string(kind)
		entry.ErrorMessage = err.Error()
	} else {
		entry.Result = result
	}

	l.mu.Lock()
	l.entries[idx] = entry
	l.mu.Unlock()

	if err != nil {
		l.logger.Error("handler dispatch failed", "action", action, "errorKind", entry.ErrorKind,
			"durationMs", humanize.Comma(entry.DurationMs))
	} else {
		l.logger.Info("handler dispatched", "action", action,
			"durationMs", humanize.Comma(entry.DurationMs))
	}

	return result, err
}

// Entries returns a copy of every recorded entry in dispatch order
// (§5 Ordering guarantees: "audit log entries are appended in dispatch order").
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
