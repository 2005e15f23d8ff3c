package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"careers-portal/internal/core/config"
)

func TestFromConfigWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "portal.log")
	l, cleanup := FromConfig(config.Log{Level: "info", JSON: true, File: file, MaxSizeMB: 1})

	l.Info("applicant submitted", zap.Int64("id", 7))
	l.Debug("filtered out")
	cleanup()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "applicant submitted" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["id"] != float64(7) {
		t.Fatalf("unexpected id field: %v", entry["id"])
	}
}

func TestBuildFallsBackToInfoOnBadLevel(t *testing.T) {
	l, cleanup := Build(Options{Level: "loud"})
	defer cleanup()
	if l.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug should be disabled at fallback info level")
	}
	if !l.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be enabled")
	}
}
