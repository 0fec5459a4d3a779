package query

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

var today = date.New(2025, time.March, 10)

func d(s string) *date.Date {
	v, err := date.Parse(s)
	if err != nil {
		panic(err)
	}
	return &v
}

func str(s string) *string { return &s }

// fixture builds:
//
//	todo:   #1 "Write report" high/medium deadline 2025-03-05 (overdue)
//	        #4 "Buy milk" low/small
//	active: #2 "Review PR" HIGH/large issue GH-12
//	done:   #3 "Fix highway sign" critical/medium
func fixture() *document.Document {
	doc := document.New()
	doc.IDCount = 4
	created := date.New(2025, time.March, 1)
	tasks := []*task.Task{
		{ID: 1, Category: task.Todo, Title: "Write report", Description: "Q1 numbers",
			Priority: "high", Size: "medium", Deadline: d("2025-03-05"), Created: created},
		{ID: 2, Category: task.Active, Title: "Review PR", Description: "parser rewrite",
			Priority: "HIGH", Size: "large", Issue: str("GH-12"), Created: created},
		{ID: 3, Category: task.Done, Title: "Fix highway sign", Description: "city request",
			Priority: "critical", Size: "medium", Created: created,
			Completed: d("2025-03-08"), IsComplete: true},
		{ID: 4, Category: task.Todo, Title: "Buy milk", Description: "2 litres",
			Priority: "low", Size: "small", Created: created},
	}
	for _, t := range tasks {
		doc.Insert(t)
	}
	return doc
}

func ids(tasks []*task.Task) []task.ID {
	out := make([]task.ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []task.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListing(t *testing.T) {
	doc := fixture()
	if got := ids(ListByCategory(doc, task.Todo)); !equalIDs(got, []task.ID{1, 4}) {
		t.Errorf("todo = %v", got)
	}
	if got := ids(ListByCategory(doc, task.Done)); !equalIDs(got, []task.ID{3}) {
		t.Errorf("done = %v", got)
	}
	if got := ids(ListAll(doc)); !equalIDs(got, []task.ID{1, 4, 2, 3}) {
		t.Errorf("all = %v", got)
	}
	if got := ListByCategory(document.New(), task.Active); len(got) != 0 {
		t.Errorf("empty doc listing = %v", got)
	}
}

func TestSearch(t *testing.T) {
	doc := fixture()
	tests := []struct {
		name string
		crit Criteria
		want []task.ID
	}{
		{"priority substring is case-insensitive", Criteria{FieldPriority: "high"}, []task.ID{1, 2}},
		{"title", Criteria{FieldTitle: "HIGH"}, []task.ID{3}},
		{"and of criteria", Criteria{FieldPriority: "high", FieldSize: "large"}, []task.ID{2}},
		{"is_done equality", Criteria{FieldIsDone: "YES"}, []task.ID{3}},
		{"is_done no", Criteria{FieldIsDone: "no"}, []task.ID{1, 4, 2}},
		{"is_done is not substring", Criteria{FieldIsDone: "y"}, nil},
		{"missing deadline matches None", Criteria{FieldDeadline: "none"}, []task.ID{4, 2, 3}},
		{"deadline prefix", Criteria{FieldDeadline: "2025-03"}, []task.ID{1}},
		{"issue", Criteria{FieldIssue: "gh-"}, []task.ID{2}},
		{"done date", Criteria{FieldDone: "03-08"}, []task.ID{3}},
		{"empty criteria matches all", Criteria{}, []task.ID{1, 4, 2, 3}},
		{"no match", Criteria{FieldDescription: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Matches(doc, tt.crit)); !equalIDs(got, tt.want) {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
			set := Search(doc, tt.crit)
			if len(set) != len(tt.want) {
				t.Errorf("Search size = %d, want %d", len(set), len(tt.want))
			}
			for _, id := range tt.want {
				if _, ok := set[id]; !ok {
					t.Errorf("Search missing #%d", id)
				}
			}
		})
	}
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{
		"title":       FieldTitle,
		"is-done":     FieldIsDone,
		"IS_DONE":     FieldIsDone,
		"create_date": FieldCreated,
	} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseField("owner"); !clierr.HasCode(err, clierr.InvalidInput) {
		t.Errorf("ParseField(owner) = %v, want INVALID_INPUT", err)
	}
}

func TestSort(t *testing.T) {
	cfg := config.NewDefault()
	tests := []struct {
		field   string
		reverse bool
		want    []task.ID
	}{
		{"id", false, []task.ID{1, 2, 3, 4}},
		{"id", true, []task.ID{4, 3, 2, 1}},
		{"priority", false, []task.ID{2, 4, 1, 3}}, // "HIGH" is not configured and sorts first
		{"size", false, []task.ID{4, 1, 3, 2}},
		{"deadline", false, []task.ID{1, 4, 2, 3}},
	}
	for _, tt := range tests {
		tasks := ListAll(fixture())
		Sort(tasks, tt.field, tt.reverse, cfg)
		got := ids(tasks)
		if !equalIDs(got, tt.want) {
			t.Errorf("Sort(%s, reverse=%v) = %v, want %v", tt.field, tt.reverse, got, tt.want)
		}
	}

	if err := ValidateSortField("colour"); !clierr.HasCode(err, clierr.InvalidInput) {
		t.Errorf("ValidateSortField = %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("work", fixture(), config.NewDefault(), today)
	if s.TotalTasks != 4 || s.IDCount != 4 || s.Overdue != 1 {
		t.Fatalf("summary = %+v", s)
	}
	wantCounts := []int{2, 1, 1}
	for i, cs := range s.Categories {
		if cs.Count != wantCounts[i] {
			t.Errorf("%s count = %d, want %d", cs.Category, cs.Count, wantCounts[i])
		}
	}
	if s.Categories[0].Overdue != 1 {
		t.Errorf("todo overdue = %d", s.Categories[0].Overdue)
	}

	// Configured priorities first, then unknown values.
	var names []string
	for _, p := range s.Priorities {
		names = append(names, p.Name)
	}
	want := []string{"low", "medium", "high", "critical", "HIGH"}
	if len(names) != len(want) {
		t.Fatalf("priorities = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("priorities[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(ListAll(fixture()), "size", config.NewDefault(), today)
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	if len(keys) != 3 || keys[0] != "small" || keys[1] != "medium" || keys[2] != "large" {
		t.Fatalf("keys = %v", keys)
	}
	medium := groups[1]
	if medium.Total != 2 || medium.Categories[0].Count != 1 || medium.Categories[2].Count != 1 {
		t.Errorf("medium group = %+v", medium)
	}
	if err := ValidateGroupField("owner"); err == nil {
		t.Error("ValidateGroupField(owner) = nil")
	}
}

func TestDeadlineState(t *testing.T) {
	w := config.WarningConfig{Critical: 0.2, Urgent: 0.4}
	created := date.New(2025, time.March, 1)
	mk := func(deadline string, c task.Category) *task.Task {
		tk := &task.Task{Category: c, Created: created}
		if deadline != "" {
			tk.Deadline = d(deadline)
		}
		return tk
	}
	tests := []struct {
		name string
		t    *task.Task
		want Urgency
	}{
		{"no deadline", mk("", task.Todo), UrgencyNone},
		{"overdue", mk("2025-03-09", task.Todo), UrgencyCritical},
		{"due today", mk("2025-03-10", task.Active), UrgencyCritical},
		{"1 of 10 days left", mk("2025-03-11", task.Todo), UrgencyCritical},
		{"3 of 12 days left", mk("2025-03-13", task.Todo), UrgencyUrgent},
		{"21 of 30 days left", mk("2025-03-31", task.Todo), UrgencyHealthy},
		{"done", mk("2025-03-09", task.Done), UrgencyHealthy},
	}
	for _, tt := range tests {
		if got := DeadlineState(tt.t, w, today); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}
