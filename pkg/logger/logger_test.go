package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	for _, format := range []string{"", "text", "json", "JSON"} {
		if err := InitWithFormat(format); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		if Get() == nil {
			t.Fatalf("format %q: logger is nil after initialization", format)
		}
	}
	if err := InitWithFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := Sync(); err != nil {
		t.Errorf("failed to sync logger: %v", err)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	SetLevel(0)
	var buf bytes.Buffer
	l := New(&buf, FormatJSON).With(String("component", "test"))
	l.Info(context.Background(), "catalog loaded", Int("rows", 3), Error(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "catalog loaded" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["component"] != "test" {
		t.Errorf("component = %v", rec["component"])
	}
	if rec["rows"] != float64(3) {
		t.Errorf("rows = %v", rec["rows"])
	}
	src, _ := rec["source"].(string)
	if !strings.Contains(src, "logger_test.go") {
		t.Errorf("source = %q, want caller file", src)
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, FormatText)

	if err := SetLevelString("warn"); err != nil {
		t.Fatal(err)
	}
	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
	l.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn not logged: %q", buf.String())
	}

	for _, lvl := range []string{"debug", "INFO", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q: %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestDiscard(t *testing.T) {
	l := Discard().Named("x")
	l.Error(context.Background(), "dropped")
	l.Debug(context.Background(), "dropped")
}
