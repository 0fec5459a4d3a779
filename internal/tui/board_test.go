package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

func fixedNow() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

func newBoard(t *testing.T, titles ...string) (*Board, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "work.json")
	if err := document.CreateEmpty(path, false); err != nil {
		t.Fatal(err)
	}
	cfg := config.NewDefault()
	opts := store.OptionsFrom(cfg)
	opts.Now = fixedNow
	s := store.New(path, opts)
	for _, title := range titles {
		if _, err := s.Create(task.Fields{Title: title, Description: "d"}); err != nil {
			t.Fatal(err)
		}
	}
	b := NewBoard(s, cfg)
	b.SetNow(fixedNow)
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b, s
}

func press(b *Board, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		b.Update(msg)
	}
}

func categoryOf(t *testing.T, s *store.Store, id task.ID) task.Category {
	t.Helper()
	tk, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	return tk.Category
}

func TestBoardColumns(t *testing.T) {
	b, _ := newBoard(t, "first", "second")
	if len(b.columns) != 3 || len(b.columns[0].tasks) != 2 {
		t.Fatalf("columns = %+v", b.columns)
	}
	out := b.View()
	for _, want := range []string{"TODO (2)", "ACTIVE (0)", "DONE (0)", "first", "work"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardStartCompleteAndFollow(t *testing.T) {
	b, s := newBoard(t, "first", "second")

	press(b, "j", "s")
	if got := categoryOf(t, s, 2); got != task.Active {
		t.Fatalf("#2 in %s after start, want active", got)
	}
	if b.activeCol != 1 || b.selectedTask().ID != 2 {
		t.Errorf("selection did not follow the task: col=%d", b.activeCol)
	}

	press(b, "c")
	if got := categoryOf(t, s, 2); got != task.Done {
		t.Fatalf("#2 in %s after complete", got)
	}

	press(b, "t")
	if tk, _ := s.Get(2); tk.Category != task.Todo || tk.IsComplete {
		t.Errorf("reopen: %+v", tk)
	}
}

func TestBoardInvalidActionShowsError(t *testing.T) {
	b, s := newBoard(t, "first")
	press(b, "c", "l", "l") // complete, then look at done
	press(b, "s")           // start from done is invalid
	if b.err == nil {
		t.Fatal("expected error after starting a done task")
	}
	if got := categoryOf(t, s, 1); got != task.Done {
		t.Errorf("task moved to %s", got)
	}
	if !strings.Contains(b.View(), "Error:") {
		t.Error("error not rendered")
	}
}

func TestBoardDeleteConfirm(t *testing.T) {
	b, s := newBoard(t, "first")

	press(b, "d")
	if b.view != viewConfirmDelete {
		t.Fatal("no confirmation dialog")
	}
	press(b, "n")
	if _, err := s.Get(1); err != nil {
		t.Fatal("task deleted after cancel")
	}

	press(b, "d", "y")
	if _, err := s.Get(1); err == nil {
		t.Fatal("task still present after confirm")
	}
	if b.view != viewBoard || len(b.columns[0].tasks) != 0 {
		t.Errorf("board not refreshed: view=%d", b.view)
	}
}

func TestBoardReloadMsg(t *testing.T) {
	b, s := newBoard(t)
	if _, err := s.Create(task.Fields{Title: "external", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	b.Update(ReloadMsg{})
	if len(b.columns[0].tasks) != 1 {
		t.Fatalf("reload did not pick up the new task")
	}
}
