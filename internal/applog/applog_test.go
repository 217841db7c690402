package applog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"tajawal-cli/internal/config"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, config.LogConfig{Level: "info", Format: "json"})
	l.Info("saved", "trip", "demo")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON log line: %v\n%s", err, buf.String())
	}
	if m["msg"] != "saved" || m["trip"] != "demo" {
		t.Fatalf("unexpected record: %#v", m)
	}
}

func TestNew_TextFormatFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, config.LogConfig{Level: "warn", Format: "text"})
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "source=") {
		t.Fatalf("expected warn record with source info:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
