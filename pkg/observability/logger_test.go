package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/platinummonkey/tally/pkg/contextkeys"
)

type logEntry struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		if buf.Len() > 0 {
			t.Error("Debug message should not be logged at Info level")
		}
	})

	t.Run("info logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Info("info message")

		var entry logEntry
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to unmarshal log entry: %v", err)
		}
		if entry.Level != "INFO" {
			t.Errorf("Level = %s, want INFO", entry.Level)
		}
		if entry.Message != "info message" {
			t.Errorf("Message = %q, want %q", entry.Message, "info message")
		}
	})

	t.Run("error logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Errorf("boom: %d", 7)

		var entry logEntry
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to unmarshal log entry: %v", err)
		}
		if entry.Level != "ERROR" {
			t.Errorf("Level = %s, want ERROR", entry.Level)
		}
		if entry.Message != "boom: 7" {
			t.Errorf("Message = %q, want %q", entry.Message, "boom: 7")
		}
	})
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("user_id", int64(42)).Info("field test")

	entry := decodeEntry(t, &buf)
	if entry["user_id"] != float64(42) {
		t.Errorf("user_id = %v, want 42", entry["user_id"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"method": "GET",
		"path":   "/api/records",
	}).Info("fields test")

	entry := decodeEntry(t, &buf)
	if entry["method"] != "GET" {
		t.Errorf("method = %v, want GET", entry["method"])
	}
	if entry["path"] != "/api/records" {
		t.Errorf("path = %v, want /api/records", entry["path"])
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("kaput")).Error("error test")
	entry := decodeEntry(t, &buf)
	if entry["error"] != "kaput" {
		t.Errorf("error = %v, want kaput", entry["error"])
	}

	// nil error must not add a field or panic
	buf.Reset()
	logger.WithError(nil).Info("no error")
	entry = decodeEntry(t, &buf)
	if _, ok := entry["error"]; ok {
		t.Error("nil error should not add an error field")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"ERROR", ErrorLevel},
		{" Info ", InfoLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	if got := GetLogger(ctx); got != logger {
		t.Error("GetLogger should return the stored logger")
	}

	// Unset context falls back to a usable default.
	if GetLogger(context.Background()) == nil {
		t.Error("GetLogger should never return nil")
	}
}

func TestFromContext_AttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = contextkeys.WithRequestID(ctx, "req-123")

	FromContext(ctx).Info("request log")

	entry := decodeEntry(t, &buf)
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", entry["request_id"])
	}
}
