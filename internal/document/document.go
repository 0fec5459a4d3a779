// Package document holds the in-memory form of one list document and its
// on-disk JSON codec.
package document

import (
	"slices"

	"github.com/twiced-technology-gmbh/check/internal/task"
)

// Document is the state of one list: the ID counter and every task, each
// tagged with the category it belongs to. order records insertion order
// across all categories; a relocation moves the ID to the end.
type Document struct {
	IDCount task.ID

	tasks   map[task.ID]*task.Task
	order   []task.ID
	layouts map[task.ID]*layout
}

// New returns an empty document with the counter at zero.
func New() *Document {
	return &Document{
		tasks:   make(map[task.ID]*task.Task),
		layouts: make(map[task.ID]*layout),
	}
}

// Len returns the number of tasks across all categories.
func (d *Document) Len() int { return len(d.tasks) }

// Get returns the task with the given ID.
func (d *Document) Get(id task.ID) (*task.Task, bool) {
	t, ok := d.tasks[id]
	return t, ok
}

// NextID advances the counter and returns the newly allocated ID.
func (d *Document) NextID() task.ID {
	d.IDCount++
	return d.IDCount
}

// Insert adds t at the end of its category. It reports false if the ID is
// already present in any category.
func (d *Document) Insert(t *task.Task) bool {
	if _, exists := d.tasks[t.ID]; exists {
		return false
	}
	d.tasks[t.ID] = t
	d.order = append(d.order, t.ID)
	return true
}

// Relocate moves the task to dest, appending it to the end of dest's order.
// It returns the category the task came from. Relocating into the current
// category leaves the order untouched.
func (d *Document) Relocate(id task.ID, dest task.Category) (task.Category, bool) {
	t, ok := d.tasks[id]
	if !ok {
		return 0, false
	}
	from := t.Category
	if from == dest {
		return from, true
	}
	d.dropOrder(id)
	d.order = append(d.order, id)
	t.Category = dest
	return from, true
}

// Remove deletes the task from whichever category holds it.
func (d *Document) Remove(id task.ID) (*task.Task, bool) {
	t, ok := d.tasks[id]
	if !ok {
		return nil, false
	}
	delete(d.tasks, id)
	delete(d.layouts, id)
	d.dropOrder(id)
	return t, true
}

// Tasks returns the tasks in category c in stored order.
func (d *Document) Tasks(c task.Category) []*task.Task {
	var out []*task.Task
	for _, id := range d.order {
		if t := d.tasks[id]; t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// MaxID returns the highest ID currently present, or zero.
func (d *Document) MaxID() task.ID {
	var highest task.ID
	for id := range d.tasks {
		highest = max(highest, id)
	}
	return highest
}

func (d *Document) dropOrder(id task.ID) {
	if i := slices.Index(d.order, id); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
}
