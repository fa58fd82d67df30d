package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"verbose": slog.LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = closeFn() }()
	logger.Debug("hidden")
	logger.Info("dataset loaded", "records", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug line to be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"dataset loaded"`) || !strings.Contains(out, `"records":3`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestNewToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agenet.log")
	logger, closeFn, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Warn("careful", "path", "x.csv")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=careful") {
		t.Fatalf("unexpected log file content: %s", data)
	}
}
