package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIntakeHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "run-123",
			level:   slog.LevelInfo,
			message: "catalog saved",
			want:    "2024-06-15T14:30:45Z\tINFO\trun-123\tcatalog saved\n",
		},
		{
			name:    "debug level",
			runID:   "run-456",
			level:   slog.LevelDebug,
			message: "charset below confidence threshold",
			want:    "2024-06-15T14:30:45Z\tDEBUG\trun-456\tcharset below confidence threshold\n",
		},
		{
			name:    "with record attrs",
			runID:   "run-789",
			level:   slog.LevelWarn,
			message: "directory does not exist",
			attrs:   []slog.Attr{slog.String("dir", "/data/raw"), slog.Int("files", 0)},
			want:    "2024-06-15T14:30:45Z\tWARN\trun-789\tdirectory does not exist\tdir=/data/raw\tfiles=0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &intakeHandler{sinks: []logSink{{w: &buf, min: slog.LevelDebug}}, runID: tt.runID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestIntakeHandler_SinkThresholds(t *testing.T) {
	var file, echo bytes.Buffer
	h := &intakeHandler{
		sinks: []logSink{{w: &file, min: slog.LevelDebug}, {w: &echo, min: slog.LevelInfo}},
		runID: "run-1",
	}
	logger := slog.New(h)

	logger.Debug("quiet detail")
	logger.Info("visible")

	if !strings.Contains(file.String(), "quiet detail") || !strings.Contains(file.String(), "visible") {
		t.Errorf("file sink = %q, want both records", file.String())
	}
	if strings.Contains(echo.String(), "quiet detail") {
		t.Errorf("echo sink got a debug record: %q", echo.String())
	}
	if !strings.Contains(echo.String(), "visible") {
		t.Errorf("echo sink = %q, want the info record", echo.String())
	}
}

func TestIntakeHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &intakeHandler{sinks: []logSink{{w: &buf}}, runID: "run-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "archive")}).(*intakeHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "archive created", 0)
	r.AddAttrs(slog.String("key", "abc"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=archive") {
		t.Errorf("expected pre-set attr component=archive, got: %q", got)
	}
	if !strings.Contains(got, "key=abc") {
		t.Errorf("expected record attr key=abc, got: %q", got)
	}
}

func TestIntakeHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	h := &intakeHandler{runID: "run-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*intakeHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestIntakeHandler_Enabled(t *testing.T) {
	h := &intakeHandler{sinks: []logSink{{min: slog.LevelWarn}}}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(INFO) = true with only a WARN sink")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(ERROR) = false with a WARN sink")
	}
	if (&intakeHandler{}).Enabled(context.Background(), slog.LevelError) {
		t.Error("handler without sinks should be disabled")
	}
}

func TestNewLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "intake.log")

	logger, f, err := newLogger(logPath, "test-run", nil)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "\tINFO\ttest-run\thello\tk=v\n") {
		t.Errorf("log file = %q", data)
	}
}
