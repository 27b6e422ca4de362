package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Stderr: &buf})

	Debug("debug message")
	Info("info message")
	Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug output present without verbose")
	}
	if strings.Contains(out, "info message") {
		t.Error("info output present without verbose")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn output missing")
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Verbose: true, Stderr: &buf})

	Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug output missing with verbose")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{JSONFormat: true, Stderr: &buf})

	Warn("warn message", "status", 429)
	out := buf.String()
	if !strings.Contains(out, `"msg":"warn message"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"status":429`) {
		t.Errorf("expected status attribute, got %q", out)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("captured")
	if !strings.Contains(buf.String(), "captured") {
		t.Error("SetOutput writer did not receive log output")
	}
}
