package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "info"); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	Get().Info(context.Background(), "dataset loaded", String("file", "iris"), Int("rows", 150))
	out := buf.String()
	if !strings.Contains(out, "dataset loaded") || !strings.Contains(out, "rows=150") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "warn"); err != nil {
		t.Fatalf("init: %v", err)
	}
	ctx := context.Background()
	Get().Info(ctx, "hidden")
	Get().Warn(ctx, "shown", Error(errors.New("boom")))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "error=boom") {
		t.Fatalf("missing warn record: %q", out)
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "debug"); err != nil {
		t.Fatalf("init: %v", err)
	}
	Named("session").Debug(context.Background(), "training started", Float64("delay_s", 2))
	if !strings.Contains(buf.String(), "component=session") {
		t.Fatalf("missing component attr: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Error(context.Background(), "nothing")
}

func TestParseLevelHasNoSideEffects(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "error"); err != nil {
		t.Fatalf("init: %v", err)
	}
	l, err := ParseLevel("DEBUG")
	if err != nil || l != slog.LevelDebug {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	Get().Warn(context.Background(), "still filtered")
	if buf.Len() != 0 {
		t.Fatalf("parsing changed the live level: %q", buf.String())
	}
}
