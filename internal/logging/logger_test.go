package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "text")
	log.Debug("hidden")
	log.Error("render failed", "error", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "err=boom") {
		t.Errorf("output %q missing err=boom", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json")
	log.Debug("render", "mode", "patch", "error", "x")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["mode"] != "patch" {
		t.Errorf("mode = %v, want patch", rec["mode"])
	}
	if _, ok := rec["error"]; ok {
		t.Error("error key not renamed")
	}
	if rec["err"] != "x" {
		t.Errorf("err = %v, want x", rec["err"])
	}
}

func TestNewNop(t *testing.T) {
	NewNop().Error("dropped")
}
