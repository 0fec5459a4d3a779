// Package query provides read views over a list document: category
// listings, field search, sorting and summaries. Nothing here writes.
package query

import (
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// Field names a searchable task field.
type Field string

// Searchable fields, named as on disk.
const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldSize        Field = "size"
	FieldDeadline    Field = "deadline"
	FieldIssue       Field = "issue"
	FieldCreated     Field = "create_date"
	FieldDone        Field = "done_date"
	FieldIsDone      Field = "is_done"
)

// Fields lists every searchable field in record order.
var Fields = []Field{
	FieldTitle, FieldDescription, FieldPriority, FieldSize, FieldDeadline,
	FieldIssue, FieldCreated, FieldDone, FieldIsDone,
}

// ParseField maps a field name to a Field. Dashes are accepted in place of
// underscores ("is-done").
func ParseField(name string) (Field, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, f := range Fields {
		if string(f) == normalized {
			return f, nil
		}
	}
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = string(f)
	}
	return "", clierr.Newf(clierr.InvalidInput, "unknown search field %q", name).
		WithDetails(map[string]any{"field": name, "allowed": names})
}

// Criteria maps fields to the value they must match. All criteria must hold.
type Criteria map[Field]string

// ListByCategory returns the tasks of one category in stored order.
func ListByCategory(doc *document.Document, c task.Category) []*task.Task {
	return doc.Tasks(c)
}

// ListAll returns todo, then active, then done tasks.
func ListAll(doc *document.Document) []*task.Task {
	var out []*task.Task
	for _, c := range task.Categories {
		out = append(out, doc.Tasks(c)...)
	}
	return out
}

// Search returns every task, across all categories, matching all criteria.
func Search(doc *document.Document, crit Criteria) map[task.ID]*task.Task {
	out := make(map[task.ID]*task.Task)
	for _, t := range Matches(doc, crit) {
		out[t.ID] = t
	}
	return out
}

// Matches returns the tasks matching crit in ListAll order.
func Matches(doc *document.Document, crit Criteria) []*task.Task {
	var out []*task.Task
	for _, t := range ListAll(doc) {
		if matches(t, crit) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t *task.Task, crit Criteria) bool {
	for f, want := range crit {
		got := Value(t, f)
		if f == FieldIsDone {
			if !strings.EqualFold(got, strings.TrimSpace(want)) {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// Value returns the string form of a field as used for matching. Absent
// optional fields read as task.NoneValue, so searching for "None" finds
// tasks without the field.
func Value(t *task.Task, f Field) string {
	switch f {
	case FieldTitle:
		return t.Title
	case FieldDescription:
		return t.Description
	case FieldPriority:
		return t.Priority
	case FieldSize:
		return t.Size
	case FieldDeadline:
		if t.Deadline == nil {
			return task.NoneValue
		}
		return t.Deadline.String()
	case FieldIssue:
		if t.Issue == nil {
			return task.NoneValue
		}
		return *t.Issue
	case FieldCreated:
		return t.Created.String()
	case FieldDone:
		if t.Completed == nil {
			return task.NoneValue
		}
		return t.Completed.String()
	case FieldIsDone:
		return t.DoneFlag()
	}
	return ""
}
