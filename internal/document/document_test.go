package document

import (
	"testing"

	"github.com/twiced-technology-gmbh/check/internal/task"
)

func TestRelocate(t *testing.T) {
	doc := New()
	for i := 1; i <= 3; i++ {
		doc.Insert(&task.Task{ID: doc.NextID(), Category: task.Todo, Title: "t"})
	}

	from, ok := doc.Relocate(1, task.Active)
	if !ok || from != task.Todo {
		t.Fatalf("Relocate = %v %v", from, ok)
	}
	if got := doc.Tasks(task.Todo); len(got) != 2 || got[0].ID != 2 {
		t.Errorf("todo after relocate = %v", got)
	}
	if got := doc.Tasks(task.Active); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("active after relocate = %v", got)
	}

	doc.Relocate(1, task.Todo)
	todo := doc.Tasks(task.Todo)
	if len(todo) != 3 || todo[2].ID != 1 {
		t.Errorf("relocated task not appended: %v", todo)
	}

	if _, ok := doc.Relocate(42, task.Done); ok {
		t.Error("Relocate of missing id reported ok")
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	doc := New()
	if !doc.Insert(&task.Task{ID: 1}) {
		t.Fatal("first insert failed")
	}
	if doc.Insert(&task.Task{ID: 1, Category: task.Done}) {
		t.Error("duplicate insert succeeded")
	}
	if doc.Len() != 1 {
		t.Errorf("Len = %d", doc.Len())
	}
}

func TestRemoveKeepsCounter(t *testing.T) {
	doc := New()
	doc.Insert(&task.Task{ID: doc.NextID()})
	doc.Insert(&task.Task{ID: doc.NextID()})
	if _, ok := doc.Remove(2); !ok {
		t.Fatal("Remove failed")
	}
	if _, ok := doc.Remove(2); ok {
		t.Error("second Remove succeeded")
	}
	if next := doc.NextID(); next != 3 {
		t.Errorf("NextID = %d, want 3", next)
	}
	if doc.MaxID() != 1 {
		t.Errorf("MaxID = %d", doc.MaxID())
	}
}
