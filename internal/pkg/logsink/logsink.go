// Package logsink carries the line-oriented progress log the editor writes
// while it scans assets and edits a save.
package logsink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

//go:generate mockgen -destination=mock/mock.go -package=logsinkmock github.com/KirkDiggler/conquest-editor/internal/pkg/logsink Sink

// Sink receives one human readable line per call.
type Sink interface {
	Log(line string)
}

// Logf formats a line and hands it to sink. A nil sink drops the line.
func Logf(sink Sink, format string, args ...interface{}) {
	if sink == nil {
		return
	}
	sink.Log(fmt.Sprintf(format, args...))
}

// Slog forwards lines to a structured logger at info level.
type Slog struct {
	logger *slog.Logger
	attrs  []any
}

// NewSlog wraps logger. A nil logger uses slog.Default().
func NewSlog(logger *slog.Logger, attrs ...any) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger, attrs: attrs}
}

// Log implements Sink
func (s *Slog) Log(line string) {
	s.logger.Log(context.Background(), slog.LevelInfo, strings.TrimRight(line, "\n"), s.attrs...)
}

// Recorder keeps every line in memory. Safe for concurrent use since
// asset families are scanned in parallel.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Log implements Sink
func (r *Recorder) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Contains reports whether any recorded line contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Discard drops every line
type Discard struct{}

// Log implements Sink
func (Discard) Log(string) {}
