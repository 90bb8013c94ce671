package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRespectsLevel(t *testing.T) {
	log := New(zerolog.WarnLevel)
	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("output missing message: %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"document": "dec.pdf",
		"pages":    3,
	})

	log.Info().Msg("processed")

	out := buf.String()
	if !strings.Contains(out, "dec.pdf") || !strings.Contains(out, "pages") {
		t.Errorf("output missing fields: %s", out)
	}
}
