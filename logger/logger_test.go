package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("TextFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatText)
		l.Info("hello %s", "world")

		output := buf.String()
		if !strings.Contains(output, "INF") || !strings.Contains(output, "hello world") {
			t.Errorf("Unexpected text output: %s", output)
		}
	})

	t.Run("JSONFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l.Info("hello %s", "world")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}

		if data["level"] != "info" || data["message"] != "hello world" {
			t.Errorf("Unexpected JSON output: %v", data)
		}
		if _, ok := data["time"]; !ok {
			t.Errorf("Missing time field in JSON output")
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l2 := l.WithFields(map[string]any{"file": "types/user.go"})
		l2.Info("parsed")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}

		if data["file"] != "types/user.go" || data["message"] != "parsed" {
			t.Errorf("Unexpected JSON output with fields: %v", data)
		}
	})

	t.Run("LevelFilter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetLevel(LogLevelWarn)
		l.Info("dropped")
		l.Debug("dropped too")
		l.Warn("kept")

		output := buf.String()
		if strings.Contains(output, "dropped") {
			t.Errorf("Info/debug should be filtered at warn level: %s", output)
		}
		if !strings.Contains(output, "kept") {
			t.Errorf("Warn missing: %s", output)
		}
	})

	t.Run("DebugFromEnv", func(t *testing.T) {
		t.Setenv("DEBUG", "true")
		buf := &bytes.Buffer{}
		l := FromEnv()
		l.SetOutput(buf)
		l.Debug("trace %d", 1)
		if !strings.Contains(buf.String(), "trace 1") {
			t.Errorf("Expected debug output with DEBUG=true, got %q", buf.String())
		}
	})

	t.Run("Silent", func(t *testing.T) {
		l := Discard()
		l.Error("nothing happens")
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug": LogLevelDebug,
		"INFO":  LogLevelInfo,
		"":      LogLevelInfo,
		"warn":  LogLevelWarn,
		"error": LogLevelError,
		"off":   LogLevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
