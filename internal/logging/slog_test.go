package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLoggerLevels(t *testing.T) {
	log, buf := newBufferedLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "frame decoded", "frames", 4)
	log.Info(ctx, "vehicle recorded", "vin", "1M8GDM9AXKP042788")
	log.Warn(ctx, "lookup slow", "elapsed_ms", 2100)
	log.Error(ctx, "db error", "op", "insert")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=\"frame decoded\"", "frames=4",
		"level=INFO", "vin=1M8GDM9AXKP042788",
		"level=WARN", "elapsed_ms=2100",
		"level=ERROR", "op=insert",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLoggerWith(t *testing.T) {
	log, buf := newBufferedLogger(t)

	child := log.With("req_id", "abc123", "user_id", "u1")
	child.Info(context.Background(), "clock in", "entry", "e1")

	out := buf.String()
	for _, want := range []string{"req_id=abc123", "user_id=u1", "entry=e1", "msg=\"clock in\""} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
