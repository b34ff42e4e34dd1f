package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestJSONLogOutput(t *testing.T) {
	// Capture the output
	var buf bytes.Buffer

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("test message", slog.String("key", "value"), slog.Int("number", 42))

	// Verify the output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("expected msg %q, got %v", "test message", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("expected key %q, got %v", "value", logEntry["key"])
	}
}
