package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", Debug},
		{" WARN ", Warn},
		{"warning", Warn},
		{"error", Error},
		{"", Info},
		{"nope", Info},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core)

	l.With(map[string]any{"request_id": "abc"}).Info("booked", map[string]any{"vet_id": int64(2), "": "ignored"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["request_id"] != "abc" {
		t.Fatalf("expected request_id field, got %#v", ctx)
	}
	if ctx["vet_id"] != int64(2) {
		t.Fatalf("expected vet_id field, got %#v", ctx)
	}
	if _, ok := ctx[""]; ok {
		t.Fatalf("empty keys must be dropped")
	}
}

func TestNew_JSONFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, App: "vet-clinic-scheduling", Output: &buf})

	l.Info("hidden", nil)
	l.Warn("shown", map[string]any{"k": "v"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if entry["msg"] != "shown" || entry["level"] != "warn" || entry["app"] != "vet-clinic-scheduling" || entry["k"] != "v" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}
