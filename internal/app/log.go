package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// logSink is one destination of the log handler with its own threshold.
type logSink struct {
	w   io.Writer
	min slog.Level
}

// intakeHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
type intakeHandler struct {
	sinks []logSink
	runID string
	attrs []slog.Attr
}

func (h *intakeHandler) Enabled(_ context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if level >= s.min {
			return true
		}
	}
	return false
}

func (h *intakeHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\t%s\t%s\t%s", r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level, h.runID, r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&buf, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&buf, "\t%s=%v", a.Key, a.Value)
		return true
	})
	buf.WriteByte('\n')

	var firstErr error
	for _, s := range h.sinks {
		if r.Level < s.min {
			continue
		}
		if _, err := s.w.Write(buf.Bytes()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *intakeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &intakeHandler{
		sinks: h.sinks,
		runID: h.runID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *intakeHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes every record to
// logPath and echoes Info and above to echo when echo is non-nil.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logPath, runID string, echo io.Writer) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	sinks := []logSink{{w: f, min: slog.LevelDebug}}
	if echo != nil {
		sinks = append(sinks, logSink{w: echo, min: slog.LevelInfo})
	}
	return slog.New(&intakeHandler{sinks: sinks, runID: runID}), f, nil
}

// stderrEcho returns os.Stderr when it is an interactive terminal, nil otherwise.
func stderrEcho() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

// slogAdapter wraps *slog.Logger to satisfy the intake.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
