package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below minimum level should be discarded")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above minimum level should be written")
	}
}

func TestEntryShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("scrape finished", Fields{"events": 12, "source": "skiddle"})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "scrape finished" {
		t.Errorf("unexpected message: %s", entry.Message)
	}
	if entry.Fields["source"] != "skiddle" {
		t.Errorf("expected source field, got %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("source failed", Fields{"source": "waterfront"}, errTest)

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Error != "boom" {
		t.Errorf("expected error field 'boom', got %q", entry.Error)
	}
}

type testErr string

func (e testErr) Error() string { return string(e) }

var errTest = testErr("boom")
