package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildLevels(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "WARN", "json")

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at WARN: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestBuildTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "INFO", "text")
	l.Info("hello", "k", "v")

	if strings.Contains(buf.String(), `"msg"`) {
		t.Errorf("expected text handler output, got JSON: %s", buf.String())
	}
}

func TestBuildInvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "nonsense", "json")
	l.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("info should be visible at fallback level: %s", buf.String())
	}
}

func TestWithSubmission(t *testing.T) {
	id := uuid.New()
	l := WithSubmission(id)
	if l == nil {
		t.Fatal("nil logger")
	}
}
