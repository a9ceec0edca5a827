package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf)
	log.Info("generated", String("output", "out.pdf"), Int("pages", 3))
	line := buf.String()
	if !strings.HasPrefix(line, "INFO generated") {
		t.Errorf("unexpected line %q", line)
	}
	if !strings.Contains(line, "output=out.pdf") || !strings.Contains(line, "pages=3") {
		t.Errorf("fields missing from %q", line)
	}
}

func TestTextLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf).With(String("component", "render"))
	log.Warn("slow", Int64("ms", 1200))
	line := buf.String()
	if !strings.Contains(line, "component=render") || !strings.Contains(line, "ms=1200") {
		t.Errorf("bound field missing from %q", line)
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf)
	log.Error("failed", Error("err", errors.New("boom")))
	if !strings.Contains(buf.String(), "err=boom") {
		t.Errorf("error field missing from %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	log := NopLogger{}
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
	if log.With(String("a", "b")) == nil {
		t.Fatal("With returned nil")
	}
}
