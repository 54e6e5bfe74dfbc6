package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn, false)

	l.log(LevelDebug, "hidden", nil)
	l.log(LevelInfo, "hidden too", nil)
	l.log(LevelWarn, "visible", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages were logged: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestConsoleFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelDebug, false)

	l.WithFields(Fields{"pipeline": "ocr", "page": 3}).Info("degraded")

	out := buf.String()
	for _, want := range []string{"degraded", "pipeline=ocr", "page=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelDebug, true)

	l.WithError(errors.New("no such page")).Error("render failed")

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if payload["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", payload["level"])
	}
	if payload["error"] != "no such page" {
		t.Errorf("error field = %v", payload["error"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARNING", LevelWarn},
		{"off", LevelOff},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
