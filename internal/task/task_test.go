package task

import (
	"errors"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/date"
)

func TestParseID(t *testing.T) {
	for _, in := range []string{"1", " 42 ", "007"} {
		if _, err := ParseID(in); err != nil {
			t.Errorf("ParseID(%q) = %v", in, err)
		}
	}
	for _, in := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := ParseID(in); !clierr.HasCode(err, clierr.InvalidTaskID) {
			t.Errorf("ParseID(%q) = %v, want INVALID_TASK_ID", in, err)
		}
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("3, 1,3,,2")
	if err != nil {
		t.Fatal(err)
	}
	want := []ID{3, 1, 2}
	if len(ids) != len(want) {
		t.Fatalf("ParseIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ParseIDs = %v, want %v", ids, want)
		}
	}
	for _, in := range []string{",", "1,x"} {
		if _, err := ParseIDs(in); !clierr.HasCode(err, clierr.InvalidTaskID) {
			t.Errorf("ParseIDs(%q) = %v, want INVALID_TASK_ID", in, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Active")
	if err != nil || c != Active {
		t.Fatalf("ParseCategory(Active) = %v, %v", c, err)
	}
	if _, err := ParseCategory("archived"); !clierr.HasCode(err, clierr.InvalidInput) {
		t.Errorf("ParseCategory(archived) = %v", err)
	}
	if Done.String() != "done" || Category(9).String() != "unknown" {
		t.Error("Category.String mismatch")
	}
}

func TestParseDeadline(t *testing.T) {
	today := date.New(2025, time.March, 10)
	if _, err := ParseDeadline("2025-03-10", today); err != nil {
		t.Errorf("today rejected: %v", err)
	}
	for _, in := range []string{"2025-03-09", "tomorrow", "2025-13-01", "2025-3-1"} {
		if _, err := ParseDeadline(in, today); !clierr.HasCode(err, clierr.InvalidDeadline) {
			t.Errorf("ParseDeadline(%q) = %v, want INVALID_DEADLINE", in, err)
		}
	}
}

func TestValidateOption(t *testing.T) {
	allowed := []string{"low", "high"}
	if err := ValidateOption("priority", "low", allowed); err != nil {
		t.Error(err)
	}
	err := ValidateOption("priority", "Low", allowed)
	var ce *clierr.Error
	if !errors.As(err, &ce) || ce.Code != clierr.InvalidOption {
		t.Fatalf("err = %v", err)
	}
	if ce.Details["field"] != "priority" {
		t.Errorf("details = %v", ce.Details)
	}
}

func TestUpdateCompletion(t *testing.T) {
	today := date.New(2025, time.March, 10)
	tk := &Task{Category: Active}

	UpdateCompletion(tk, Active, Done, today)
	if !tk.IsComplete || tk.Completed == nil || *tk.Completed != today {
		t.Fatalf("into done: %+v", tk)
	}
	UpdateCompletion(tk, Done, Todo, today)
	if tk.IsComplete || tk.Completed != nil {
		t.Fatalf("out of done: %+v", tk)
	}
	UpdateCompletion(tk, Todo, Active, today)
	if tk.IsComplete || tk.Completed != nil {
		t.Fatalf("todo to active: %+v", tk)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := date.New(2025, time.April, 1)
	issue := "GH-1"
	tk := &Task{ID: 1, Deadline: &d, Issue: &issue}
	c := tk.Clone()
	*c.Issue = "changed"
	c.Deadline = nil
	if *tk.Issue != "GH-1" || tk.Deadline == nil {
		t.Error("Clone shares pointers with its source")
	}
}

func TestIsNone(t *testing.T) {
	for in, want := range map[string]bool{"": true, "none": true, "None": true, "NONE": true, "no": false} {
		if IsNone(in) != want {
			t.Errorf("IsNone(%q) = %v", in, !want)
		}
	}
}
