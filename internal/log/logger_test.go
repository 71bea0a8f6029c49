package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestComponentTagging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelDebug,
		Component: "storage",
		Handler:   slog.NewJSONHandler(&buf, nil),
	})

	logger.InfoContext(context.Background(), "opened database", "path", "/tmp/x.db")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output not JSON: %q", buf.String())
	}
	if record["component"] != "storage" {
		t.Errorf("component = %v", record["component"])
	}
	if record["path"] != "/tmp/x.db" {
		t.Errorf("attribute lost: %v", record)
	}
	if record["msg"] != "opened database" {
		t.Errorf("msg = %v", record["msg"])
	}
}

func TestWithComponent(t *testing.T) {
	logger := New(DefaultConfig())

	child := logger.WithComponent("http")
	if child.Component() != "http" {
		t.Errorf("component = %q", child.Component())
	}
	if logger.Component() != "app" {
		t.Errorf("parent mutated: %q", logger.Component())
	}
}
