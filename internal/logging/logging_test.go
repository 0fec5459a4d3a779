package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		" INFO ":  log.InfoLevel,
		"error":   log.ErrorLevel,
		"warn":    log.WarnLevel,
		"":        log.WarnLevel,
		"verbose": log.WarnLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultOptionsReadsEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	if got := DefaultOptions().Level; got != log.DebugLevel {
		t.Errorf("Level = %v, want debug", got)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.InfoLevel, Formatter: ParseFormatter("logfmt")})

	logger.Debug("hidden")
	logger.Info("saved document", "list", "work")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "list=work") {
		t.Errorf("missing structured field: %q", out)
	}
}
