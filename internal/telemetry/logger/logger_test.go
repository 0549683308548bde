package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newCaptureLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}
	return entry
}

func TestLoggerRedactsTokenKeys(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")

	l.Info("record resolved", "session_token", "0123456789abcdef0123456789abcdef")

	entry := lastEntry(t, buf)
	got, _ := entry["session_token"].(string)
	if strings.Contains(got, "0123456789abcdef0123456789abcdef") {
		t.Fatalf("token value leaked into log: %q", got)
	}
	if !strings.HasPrefix(got, "012345") {
		t.Fatalf("masked token should keep a correlation prefix, got %q", got)
	}
}

func TestLoggerRedactsAccessTokenValues(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")

	// hex("access:u1:...") under a neutral key name
	value := "6163636573733a75313a6465616462656566"
	l.Info("audit", "subject", value)

	entry := lastEntry(t, buf)
	got, _ := entry["subject"].(string)
	if got == value {
		t.Fatal("access token value under neutral key was not masked")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := newCaptureLogger(t, "warn")

	l.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("info entry emitted at warn level: %s", buf.String())
	}

	l.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn entry missing")
	}
}

func TestSetLevelIsDynamic(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("error")
	l.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("info entry emitted at error level: %s", buf.String())
	}

	SetLevel("debug")
	l.Debug("kept")
	if buf.Len() == 0 {
		t.Fatal("debug entry missing after SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Fatalf("GetLevel = %q, want debug", got)
	}
}

func TestWithContextTagsRequestID(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")

	ctx := ContextWithRequestID(context.Background(), "01J0EXAMPLEULID")
	l.WithContext(ctx).Info("handled")

	entry := lastEntry(t, buf)
	if entry["request_id"] != "01J0EXAMPLEULID" {
		t.Fatalf("request_id = %v, want 01J0EXAMPLEULID", entry["request_id"])
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		full bool // fully redacted
	}{
		{"short", true},
		{"0123456789abcdef", false},
	}
	for _, tt := range tests {
		got := MaskToken(tt.in)
		if tt.full && got != redactedValue {
			t.Errorf("MaskToken(%q) = %q, want full redaction", tt.in, got)
		}
		if !tt.full && (got == tt.in || got == redactedValue) {
			t.Errorf("MaskToken(%q) = %q, want partial mask", tt.in, got)
		}
	}
}
