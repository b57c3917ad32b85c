// internal/debug/debug_test.go
package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
	if IsEnabled(WithDebug(context.Background(), false)) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
}

func withLogger(t *testing.T, debugEnabled bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(NewLogger(&buf, debugEnabled))
	t.Cleanup(func() { slog.SetDefault(original) })
	return &buf
}

func TestLogRequiresDebugContext(t *testing.T) {
	buf := withLogger(t, true)

	Log(context.Background(), "request complete", "status", 200)
	if buf.Len() != 0 {
		t.Fatalf("expected no output without debug context, got %q", buf.String())
	}

	Log(WithDebug(context.Background(), true), "request complete", "status", 200)
	if !strings.Contains(buf.String(), "request complete") || !strings.Contains(buf.String(), "status=200") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	buf := withLogger(t, false)

	slog.Debug("hidden")
	slog.Warn("rate limited, waiting before retry", "wait", "60s")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("warning should be written, got %q", out)
	}
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	SetupLogger(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(true) should enable debug level logging")
	}

	SetupLogger(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("SetupLogger(false) should disable debug level logging")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("SetupLogger(false) should enable warn level logging")
	}
}
