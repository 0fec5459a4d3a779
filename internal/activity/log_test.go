package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPathFor(t *testing.T) {
	got := PathFor(filepath.Join("data", "lists", "work.json"))
	want := filepath.Join("data", "lists", "work.activity.jsonl")
	if got != want {
		t.Errorf("PathFor = %q, want %q", got, want)
	}
}

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.activity.jsonl")
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, action := range []string{"create", "start", "complete"} {
		Record(path, base.Add(time.Duration(i)*time.Minute), action, "1", "")
	}

	all, err := Read(path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(all) != 3 || all[0].Action != "create" || all[2].Action != "complete" {
		t.Fatalf("entries = %+v", all)
	}
	if !all[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp = %v", all[1].Timestamp)
	}

	last, err := Read(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 || last[0].Action != "start" {
		t.Errorf("limited = %+v", last)
	}
}

func TestReadMissingLog(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "none.jsonl"), 10)
	if err != nil || entries != nil {
		t.Fatalf("Read = %v, %v; want nil, nil", entries, err)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, 0); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("Read = %v, want parse error on line 1", err)
	}
}
