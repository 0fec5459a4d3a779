// Package task defines the task entity, its categories, and field validation.
package task

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/date"
)

// ID identifies a task within one list. It is serialized as a decimal string.
type ID int

// ParseID parses a decimal task ID as given on the command line or as a document key.
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, ValidateTaskID(s)
	}
	return ID(n), nil
}

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.Itoa(int(id)) }

// MarshalText implements encoding.TextMarshaler so IDs work as JSON map keys.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Category is the lifecycle bucket a task lives in.
type Category int

// Categories in their fixed listing order.
const (
	Todo Category = iota
	Active
	Done
)

// Categories lists every category in listing order.
var Categories = []Category{Todo, Active, Done}

var categoryNames = [...]string{"todo", "active", "done"}

// String returns the on-disk name of the category.
func (c Category) String() string {
	if c < Todo || c > Done {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a category name to its Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return 0, clierr.Newf(clierr.InvalidInput, "invalid category %q", s).
		WithDetails(map[string]any{
			"category": s,
			"allowed":  categoryNames[:],
		})
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Task is one unit of work inside a list document.
type Task struct {
	ID          ID         `json:"id"`
	Category    Category   `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Size        string     `json:"size"`
	Deadline    *date.Date `json:"deadline"`
	Issue       *string    `json:"issue"`
	Created     date.Date  `json:"create_date"`
	Completed   *date.Date `json:"done_date"`
	IsComplete  bool       `json:"is_done"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.Issue != nil {
		s := *t.Issue
		c.Issue = &s
	}
	if t.Completed != nil {
		d := *t.Completed
		c.Completed = &d
	}
	return &c
}

// DoneFlag returns the persisted "yes"/"no" form of IsComplete.
func (t *Task) DoneFlag() string {
	if t.IsComplete {
		return "yes"
	}
	return "no"
}

// Fields holds the caller-supplied values for a new task. Deadline is the raw
// YYYY-MM-DD string; empty means no deadline.
type Fields struct {
	Title       string
	Description string
	Priority    string
	Size        string
	Deadline    string
	Issue       string
}

// Patch holds a partial update. Nil fields are left untouched.
// A Deadline or Issue of "" (or "none") clears the field.
type Patch struct {
	Title       *string
	Description *string
	Priority    *string
	Size        *string
	Deadline    *string
	Issue       *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Size == nil && p.Deadline == nil && p.Issue == nil
}

// ParseIDs splits a comma-separated ID argument into deduplicated IDs,
// keeping their first-seen order.
func ParseIDs(arg string) ([]ID, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[ID]bool, len(parts))
	ids := make([]ID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, clierr.New(clierr.InvalidTaskID, "no valid task IDs provided")
	}
	return ids, nil
}
