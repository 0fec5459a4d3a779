package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/listdir"
)

func newDirectory(t *testing.T) *listdir.Directory {
	t.Helper()
	cfg, err := config.Ensure(t.TempDir())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	return listdir.New(cfg, nil)
}

func TestPromptFirstList(t *testing.T) {
	dir := newDirectory(t)
	var out bytes.Buffer

	path, err := promptFirstList(dir, strings.NewReader("Bad Name\n\nchores\n"), &out)
	if err != nil {
		t.Fatalf("promptFirstList: %v", err)
	}
	if filepath.Base(path) != "chores.json" {
		t.Errorf("path = %s, want chores.json", path)
	}
	if active, _ := dir.Names(); active != "chores" {
		t.Errorf("active = %q, want chores", active)
	}
	if !strings.Contains(out.String(), "invalid list name") {
		t.Errorf("expected the invalid name to be reported, got:\n%s", out.String())
	}
}

func TestPromptFirstListEOF(t *testing.T) {
	dir := newDirectory(t)
	_, err := promptFirstList(dir, strings.NewReader("Nope"), &bytes.Buffer{})
	if !clierr.HasCode(err, clierr.NoActiveList) {
		t.Fatalf("err = %v, want NO_ACTIVE_LIST", err)
	}
}

func TestFormatConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{[]string{"low", "high"}, "low, high"},
		{[]string{}, "--"},
		{"", "--"},
		{"medium", "medium"},
		{0.2, "0.2"},
		{config.DoneColors{Yes: "34", No: "196"}, "yes=34 no=196"},
	}
	for _, tt := range tests {
		if got := formatConfigValue(tt.in); got != tt.want {
			t.Errorf("formatConfigValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigAccessorsCoverDisplayKeys(t *testing.T) {
	accessors := configAccessors()
	for _, key := range allConfigKeys() {
		if _, ok := accessors[key]; !ok {
			t.Errorf("no accessor for %q", key)
		}
	}
	if len(accessors) != len(allConfigKeys()) {
		t.Errorf("%d accessors, %d display keys", len(accessors), len(allConfigKeys()))
	}
}
