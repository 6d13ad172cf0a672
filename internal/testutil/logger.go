package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// LogRecord is one call captured by RecordingLogger.
type LogRecord struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger captures log calls so tests can assert on diagnostics.
type RecordingLogger struct {
	mu      sync.Mutex
	records []LogRecord
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, LogRecord{Level: level, Msg: msg, Args: args})
}

// Records returns a copy of everything logged so far.
func (l *RecordingLogger) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogRecord(nil), l.records...)
}

// AtLevel returns the records logged at level ("DEBUG", "INFO", "WARN", "ERROR").
func (l *RecordingLogger) AtLevel(level string) []LogRecord {
	var out []LogRecord
	for _, r := range l.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Contains reports whether any record at level mentions substr in its message
// or arguments.
func (l *RecordingLogger) Contains(level, substr string) bool {
	for _, r := range l.AtLevel(level) {
		if strings.Contains(r.Msg, substr) || strings.Contains(fmt.Sprint(r.Args...), substr) {
			return true
		}
	}
	return false
}
