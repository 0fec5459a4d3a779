package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiltersByFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "work.json")
	other := filepath.Join(dir, "home.json")

	fired := make(chan struct{}, 10)
	w, err := New([]string{target}, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	if err := os.WriteFile(other, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("callback fired for an unwatched file")
	case <-time.After(4 * debounceDelay):
	}

	// Replace the target by rename, the way documents are saved.
	tmp := filepath.Join(dir, "work.json.tmp")
	if err := os.WriteFile(tmp, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not fired after the target was replaced")
	}
}
