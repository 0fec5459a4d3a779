package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

const (
	fileMode = 0o600
	dirMode  = 0o750

	schemaURL = "check://document.schema.json"
	indent    = "    "
)

//go:embed schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// record holds the fields of a task as stored on disk.
type record struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Size        string  `json:"size"`
	Deadline    *string `json:"deadline"`
	Issue       *string `json:"issue"`
	CreateDate  string  `json:"create_date"`
	DoneDate    *string `json:"done_date"`
	IsDone      string  `json:"is_done"`
}

// canonicalKeys is the record key order for tasks the store creates.
var canonicalKeys = []string{
	"title", "description", "priority", "size", "deadline", "issue",
	"create_date", "done_date", "is_done",
}

// layout is how a decoded record was written: its key order, keys the codec
// does not model, and the placeholder string of a legacy absent deadline.
type layout struct {
	keys         []string
	extra        map[string]json.RawMessage
	noneDeadline *string
}

// order returns the keys to write for r. A key the record now needs but the
// layout lacks goes right after its nearest canonical predecessor.
func (l *layout) order(r record) []string {
	if l == nil {
		return canonicalKeys
	}
	keys := slices.Clone(l.keys)
	for i, key := range canonicalKeys {
		if slices.Contains(keys, key) || !r.has(key) {
			continue
		}
		at := 0
		for j := i - 1; j >= 0; j-- {
			if p := slices.Index(keys, canonicalKeys[j]); p >= 0 {
				at = p + 1
				break
			}
		}
		keys = slices.Insert(keys, at, key)
	}
	return keys
}

// has reports whether key carries a value that must be written.
func (r record) has(key string) bool {
	switch key {
	case "deadline":
		return r.Deadline != nil
	case "issue":
		return r.Issue != nil
	case "done_date":
		return r.DoneDate != nil
	}
	return true
}

type entry struct {
	id     string
	rec    record
	layout *layout
}

func (e entry) value(key string) any {
	switch key {
	case "title":
		return e.rec.Title
	case "description":
		return e.rec.Description
	case "priority":
		return e.rec.Priority
	case "size":
		return e.rec.Size
	case "deadline":
		if e.rec.Deadline == nil && e.layout != nil && e.layout.noneDeadline != nil {
			return *e.layout.noneDeadline
		}
		return e.rec.Deadline
	case "issue":
		return e.rec.Issue
	case "create_date":
		return e.rec.CreateDate
	case "done_date":
		return e.rec.DoneDate
	case "is_done":
		return e.rec.IsDone
	}
	if e.layout != nil {
		return e.layout.extra[key]
	}
	return nil
}

// category is an insertion-ordered JSON object of id -> record.
type category []entry

type file struct {
	IDCount int      `json:"id_count"`
	Todo    category `json:"todo"`
	Active  category `json:"active"`
	Done    category `json:"done"`
}

func (f *file) categories() []*category {
	return []*category{&f.Todo, &f.Active, &f.Done}
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // document path from list directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.Newf(clierr.ListNotFound, "list document not found: %s", path).
				WithDetails(map[string]any{"path": path})
		}
		return nil, fmt.Errorf("reading list document: %w", err)
	}
	return Decode(path, data)
}

// Decode parses document bytes. path is only used in error messages.
func Decode(path string, data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, corrupt(path, "malformed JSON: %v", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, schemaError(path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, corrupt(path, "decoding document: %v", err)
	}

	doc := New()
	doc.IDCount = task.ID(f.IDCount)
	for i, cat := range f.categories() {
		c := task.Categories[i]
		for _, e := range *cat {
			t, err := fromRecord(e, c)
			if err != nil {
				return nil, corrupt(path, "task %s in %q: %v", e.id, c.String(), err)
			}
			if !doc.Insert(t) {
				return nil, corrupt(path, "task %s appears more than once", e.id)
			}
			doc.layouts[t.ID] = e.layout
		}
	}
	if highest := doc.MaxID(); doc.IDCount < highest {
		return nil, corrupt(path, "id_count %d is lower than task ID %d", doc.IDCount, highest)
	}
	return doc, nil
}

// Save writes the document. Decoded records keep the key layout they were
// read with; records created since use the canonical layout. The content
// goes to a temp file
// in the same directory which is then renamed over path, so a crash never
// leaves a truncated document behind.
func Save(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// Encode renders the document as Save writes it.
func Encode(doc *Document) ([]byte, error) {
	f := file{IDCount: int(doc.IDCount)}
	cats := f.categories()
	for i, c := range task.Categories {
		for _, t := range doc.Tasks(c) {
			*cats[i] = append(*cats[i], entry{
				id:     t.ID.String(),
				rec:    toRecord(t),
				layout: doc.layouts[t.ID],
			})
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateEmpty writes a fresh document with id_count 0 and no tasks.
// It fails with ALREADY_EXISTS if path is occupied, unless overwrite is set.
func CreateEmpty(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return clierr.Newf(clierr.AlreadyExists, "list document already exists: %s", path).
				WithDetails(map[string]any{"path": path})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating list directory: %w", err)
	}
	return Save(path, New())
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(name, fileMode)
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("writing temp document: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replacing list document: %w", err)
	}
	return nil
}

func toRecord(t *task.Task) record {
	r := record{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Size:        t.Size,
		Issue:       t.Issue,
		CreateDate:  t.Created.String(),
		IsDone:      t.DoneFlag(),
	}
	if t.Deadline != nil {
		s := t.Deadline.String()
		r.Deadline = &s
	}
	if t.Completed != nil {
		s := t.Completed.String()
		r.DoneDate = &s
	}
	return r
}

func fromRecord(e entry, c task.Category) (*task.Task, error) {
	id, err := task.ParseID(e.id)
	if err != nil {
		return nil, err
	}
	created, err := date.Parse(e.rec.CreateDate)
	if err != nil {
		return nil, fmt.Errorf("create_date: %w", err)
	}

	t := &task.Task{
		ID:          id,
		Category:    c,
		Title:       e.rec.Title,
		Description: e.rec.Description,
		Priority:    e.rec.Priority,
		Size:        e.rec.Size,
		Issue:       e.rec.Issue,
		Created:     created,
		IsComplete:  e.rec.IsDone == "yes",
	}

	// Older lists stored a missing deadline as the string "None".
	if e.rec.Deadline != nil && !task.IsNone(*e.rec.Deadline) {
		d, err := date.Parse(*e.rec.Deadline)
		if err != nil {
			return nil, fmt.Errorf("deadline: %w", err)
		}
		t.Deadline = &d
	}
	if e.rec.DoneDate != nil {
		d, err := date.Parse(*e.rec.DoneDate)
		if err != nil {
			return nil, fmt.Errorf("done_date: %w", err)
		}
		t.Completed = &d
	}

	inDone := c == task.Done
	if t.IsComplete != inDone {
		return nil, fmt.Errorf("is_done %q does not match category", e.rec.IsDone)
	}
	if (t.Completed != nil) != inDone {
		return nil, errors.New("done_date does not match category")
	}
	return t, nil
}

// MarshalJSON writes the entries as a JSON object in slice order.
func (c category) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(e.id); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(e); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the record with keys in layout order.
func (e entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, key := range e.layout.order(e.rec) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(e.value(key)); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. Duplicate keys are
// kept so that Decode can report them.
func (c *category) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category must be an object, got %v", tok)
	}

	var out category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("task %s: %w", key, err)
		}
		e, err := decodeEntry(key, raw)
		if err != nil {
			return fmt.Errorf("task %s: %w", key, err)
		}
		out = append(out, e)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// decodeEntry reads one record along with its layout.
func decodeEntry(id string, data []byte) (entry, error) {
	e := entry{id: id, layout: &layout{}}
	if err := json.Unmarshal(data, &e.rec); err != nil {
		return entry{}, err
	}
	if e.rec.Deadline != nil && task.IsNone(*e.rec.Deadline) {
		e.layout.noneDeadline = e.rec.Deadline
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return entry{}, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return entry{}, err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return entry{}, err
		}
		if slices.Contains(e.layout.keys, key) {
			continue
		}
		e.layout.keys = append(e.layout.keys, key)
		if !slices.Contains(canonicalKeys, key) {
			if e.layout.extra == nil {
				e.layout.extra = make(map[string]json.RawMessage)
			}
			e.layout.extra[key] = raw
		}
	}
	return e, nil
}

func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

func corrupt(path, format string, args ...any) *clierr.Error {
	return clierr.Newf(clierr.CorruptDocument, "corrupt list document %s: %s",
		path, fmt.Sprintf(format, args...)).
		WithDetails(map[string]any{"path": path})
}

// schemaError reports the first leaf cause of a schema violation.
func schemaError(path string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return corrupt(path, "%v", err)
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return corrupt(path, "%s: %s", location, ve.Message)
}
