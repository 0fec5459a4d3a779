// Package store implements the task lifecycle over one list document.
// Each operation loads the document, applies one mutation and saves it back;
// an operation that fails leaves the file untouched.
package store

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/check/internal/activity"
	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/logging"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// Activity log actions.
const (
	ActionCreate   = "create"
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionMove     = "move"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
)

// Options configures a Store.
type Options struct {
	Priorities      []string
	Sizes           []string
	DefaultPriority string
	DefaultSize     string

	// Now is the clock used for create and completion dates. Defaults to time.Now.
	Now    func() time.Time
	Logger *log.Logger
}

// OptionsFrom derives store options from the settings.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Priorities:      cfg.PriorityNames(),
		Sizes:           cfg.SizeNames(),
		DefaultPriority: cfg.Defaults.Priority,
		DefaultSize:     cfg.Defaults.Size,
	}
}

// Store operates on the list document at a fixed path.
type Store struct {
	path   string
	list   string
	opts   Options
	logger *log.Logger
}

// New returns a Store for the document at path.
func New(path string, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Priorities) == 0 {
		opts.Priorities = config.NewDefault().PriorityNames()
	}
	if len(opts.Sizes) == 0 {
		opts.Sizes = config.NewDefault().SizeNames()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	list := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Store{
		path:   path,
		list:   list,
		opts:   opts,
		logger: logger.With("list", list),
	}
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

// List returns the list name derived from the document path.
func (s *Store) List() string { return s.list }

// ActivityPath returns the path of the list's activity log.
func (s *Store) ActivityPath() string { return activity.PathFor(s.path) }

// Document loads the current document.
func (s *Store) Document() (*document.Document, error) {
	return document.Load(s.path)
}

// Get returns the task with the given ID.
func (s *Store) Get(id task.ID) (*task.Task, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	return t, nil
}

// Create validates f and adds a new task to todo with the next ID.
func (s *Store) Create(f task.Fields) (*task.Task, error) {
	today := s.today()

	if err := task.ValidateText("title", f.Title); err != nil {
		return nil, err
	}
	if err := task.ValidateText("description", f.Description); err != nil {
		return nil, err
	}
	priority := firstNonEmpty(f.Priority, s.opts.DefaultPriority)
	if err := task.ValidateOption("priority", priority, s.opts.Priorities); err != nil {
		return nil, err
	}
	size := firstNonEmpty(f.Size, s.opts.DefaultSize)
	if err := task.ValidateOption("size", size, s.opts.Sizes); err != nil {
		return nil, err
	}
	var deadline *date.Date
	if !task.IsNone(f.Deadline) {
		d, err := task.ParseDeadline(f.Deadline, today)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	doc, err := s.Document()
	if err != nil {
		return nil, err
	}

	t := &task.Task{
		ID:          doc.NextID(),
		Category:    task.Todo,
		Title:       f.Title,
		Description: f.Description,
		Priority:    priority,
		Size:        size,
		Deadline:    deadline,
		Issue:       reference(f.Issue),
		Created:     today,
	}
	if !doc.Insert(t) {
		return nil, clierr.Newf(clierr.CorruptDocument,
			"id_count %d collides with an existing task", t.ID)
	}

	if err := s.commit(doc, ActionCreate, t, "", t.Title); err != nil {
		return nil, err
	}
	return t, nil
}

// Start moves a task from todo to active.
func (s *Store) Start(id task.ID) (*task.Task, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Get(id)
	if !ok || t.Category != task.Todo {
		return nil, task.NotInCategory(id, task.Todo)
	}
	doc.Relocate(id, task.Active)

	if err := s.commit(doc, ActionStart, t, task.Todo.String(), transition(task.Todo, task.Active)); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete moves a task from todo or active to done and stamps the
// completion date.
func (s *Store) Complete(id task.ID) (*task.Task, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	if t.Category == task.Done {
		return nil, task.AlreadyComplete(id)
	}
	from, _ := doc.Relocate(id, task.Done)
	task.UpdateCompletion(t, from, task.Done, s.today())

	if err := s.commit(doc, ActionComplete, t, from.String(), transition(from, task.Done)); err != nil {
		return nil, err
	}
	return t, nil
}

// Move relocates a task to todo or active. Leaving done clears the
// completion. changed is false when the task already was in dest; nothing
// is written in that case.
func (s *Store) Move(id task.ID, dest task.Category) (t *task.Task, changed bool, err error) {
	if dest == task.Done {
		return nil, false, clierr.New(clierr.InvalidInput,
			"cannot move a task to done (use complete)").
			WithDetails(map[string]any{"id": id.String(), "category": dest.String()})
	}
	doc, err := s.Document()
	if err != nil {
		return nil, false, err
	}
	t, ok := doc.Get(id)
	if !ok {
		return nil, false, task.NotFound(id)
	}
	if t.Category == dest {
		return t, false, nil
	}
	from, _ := doc.Relocate(id, dest)
	task.UpdateCompletion(t, from, dest, s.today())

	if err := s.commit(doc, ActionMove, t, from.String(), transition(from, dest)); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Update applies the non-nil fields of p. The category never changes.
func (s *Store) Update(id task.ID, p task.Patch) (*task.Task, error) {
	if p.Empty() {
		return nil, clierr.New(clierr.NoChanges, "no options were given to change").
			WithDetails(map[string]any{"id": id.String()})
	}
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Get(id)
	if !ok {
		return nil, task.NotFound(id)
	}

	updated, changed, err := s.apply(t.Clone(), p)
	if err != nil {
		return nil, err
	}
	*t = *updated

	if err := s.commit(doc, ActionUpdate, t, t.Category.String(), strings.Join(changed, ",")); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task from whichever category holds it.
func (s *Store) Delete(id task.ID) (*task.Task, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	t, ok := doc.Remove(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	if err := s.commit(doc, ActionDelete, t, t.Category.String(), t.Title); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) apply(t *task.Task, p task.Patch) (*task.Task, []string, error) {
	var changed []string
	if p.Title != nil {
		if err := task.ValidateText("title", *p.Title); err != nil {
			return nil, nil, err
		}
		t.Title = *p.Title
		changed = append(changed, "title")
	}
	if p.Description != nil {
		if err := task.ValidateText("description", *p.Description); err != nil {
			return nil, nil, err
		}
		t.Description = *p.Description
		changed = append(changed, "description")
	}
	if p.Priority != nil {
		if err := task.ValidateOption("priority", *p.Priority, s.opts.Priorities); err != nil {
			return nil, nil, err
		}
		t.Priority = *p.Priority
		changed = append(changed, "priority")
	}
	if p.Size != nil {
		if err := task.ValidateOption("size", *p.Size, s.opts.Sizes); err != nil {
			return nil, nil, err
		}
		t.Size = *p.Size
		changed = append(changed, "size")
	}
	if p.Deadline != nil {
		t.Deadline = nil
		if !task.IsNone(*p.Deadline) {
			d, err := task.ParseDeadline(*p.Deadline, s.today())
			if err != nil {
				return nil, nil, err
			}
			t.Deadline = &d
		}
		changed = append(changed, "deadline")
	}
	if p.Issue != nil {
		t.Issue = nil
		if !task.IsNone(*p.Issue) {
			t.Issue = reference(*p.Issue)
		}
		changed = append(changed, "issue")
	}
	return t, changed, nil
}

// commit saves the document and records the mutation. from is the category
// the task was in before, empty for a new task.
func (s *Store) commit(doc *document.Document, action string, t *task.Task, from, detail string) error {
	if err := document.Save(s.path, doc); err != nil {
		return err
	}
	kv := []any{"id", t.ID}
	if from != "" {
		kv = append(kv, "from", from)
	}
	kv = append(kv, "to", t.Category, "detail", detail)
	s.logger.Debug(action, kv...)
	activity.Record(s.ActivityPath(), s.opts.Now(), action, t.ID.String(), detail)
	return nil
}

func (s *Store) today() date.Date {
	return date.Of(s.opts.Now())
}

func transition(from, to task.Category) string {
	return from.String() + " -> " + to.String()
}

// reference returns the external reference as given, nil when empty.
func reference(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
