package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

const canonical = `{
    "id_count": 5,
    "todo": {
        "4": {
            "title": "Write report",
            "description": "Q1 <numbers> & charts",
            "priority": "high",
            "size": "medium",
            "deadline": "2025-04-01",
            "issue": null,
            "create_date": "2025-03-01",
            "done_date": null,
            "is_done": "no"
        },
        "2": {
            "title": "Buy milk",
            "description": "2 litres",
            "priority": "low",
            "size": "small",
            "deadline": null,
            "issue": "GH-7",
            "create_date": "2025-03-02",
            "done_date": null,
            "is_done": "no"
        }
    },
    "active": {},
    "done": {
        "1": {
            "title": "Fix sign",
            "description": "city request",
            "priority": "critical",
            "size": "large",
            "deadline": null,
            "issue": null,
            "create_date": "2025-02-20",
            "done_date": "2025-03-03",
            "is_done": "yes"
        }
    }
}
`

func TestRoundTripIsByteExact(t *testing.T) {
	doc, err := Decode("test.json", []byte(canonical))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != canonical {
		t.Errorf("round trip differs:\n%s", got)
	}
}

func TestDecodeKeepsOrderAndFields(t *testing.T) {
	doc, err := Decode("test.json", []byte(canonical))
	if err != nil {
		t.Fatal(err)
	}
	if doc.IDCount != 5 || doc.Len() != 3 {
		t.Fatalf("IDCount=%d Len=%d", doc.IDCount, doc.Len())
	}
	todo := doc.Tasks(task.Todo)
	if len(todo) != 2 || todo[0].ID != 4 || todo[1].ID != 2 {
		t.Fatalf("todo order = %v", todo)
	}
	if todo[1].Issue == nil || *todo[1].Issue != "GH-7" || todo[1].Deadline != nil {
		t.Errorf("task #2 optionals = %+v", todo[1])
	}
	done, _ := doc.Get(1)
	if !done.IsComplete || done.Completed == nil || done.Completed.String() != "2025-03-03" {
		t.Errorf("done task = %+v", done)
	}
}

func TestDecodeLegacyDocument(t *testing.T) {
	legacy := `{"id_count": 1, "todo": {"1": {"title": "a", "description": "b",
		"priority": "low", "size": "small", "deadline": "None",
		"create_date": "2024-01-01", "done_date": null, "is_done": "no"}},
		"active": {}, "done": {}}`
	doc, err := Decode("legacy.json", []byte(legacy))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tk, _ := doc.Get(1)
	if tk.Deadline != nil || tk.Issue != nil {
		t.Errorf("legacy optionals = %v %v, want absent", tk.Deadline, tk.Issue)
	}
	out, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"deadline": "None"`) || strings.Contains(string(out), `"issue"`) {
		t.Errorf("legacy record not kept as written:\n%s", out)
	}

	d := date.New(2024, time.February, 1)
	tk.Deadline = &d
	out, err = Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"deadline": "2024-02-01"`) {
		t.Errorf("deadline not written:\n%s", out)
	}
}

// legacyShape is a document as older releases wrote it: issue first, no
// deadline key and an unmodelled key at the end.
const legacyShape = `{
    "id_count": 2,
    "todo": {
        "2": {
            "issue": "None",
            "title": "Water plants",
            "description": "balcony",
            "priority": "low",
            "size": "small",
            "create_date": "2025-03-01",
            "done_date": null,
            "is_done": "no",
            "tags": [
                "home"
            ]
        }
    },
    "active": {},
    "done": {
        "1": {
            "issue": null,
            "title": "Pay rent",
            "description": "march",
            "priority": "high",
            "size": "small",
            "create_date": "2025-02-27",
            "done_date": "2025-03-01",
            "is_done": "yes"
        }
    }
}
`

func TestRoundTripKeepsRecordLayout(t *testing.T) {
	doc, err := Decode("test.json", []byte(legacyShape))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != legacyShape {
		t.Errorf("round trip differs:\n%s", got)
	}

	tk, _ := doc.Get(2)
	if tk.Issue == nil || *tk.Issue != "None" {
		t.Errorf("issue = %v, want verbatim \"None\"", tk.Issue)
	}
}

func TestEncodeAddsKeysInCanonicalPosition(t *testing.T) {
	doc, err := Decode("test.json", []byte(legacyShape))
	if err != nil {
		t.Fatal(err)
	}
	tk, _ := doc.Get(2)
	d := date.New(2025, time.April, 1)
	tk.Deadline = &d

	fresh := &task.Task{
		ID: doc.NextID(), Category: task.Todo, Title: "New", Priority: "low", Size: "small",
		Created: date.New(2025, time.March, 5),
	}
	doc.Insert(fresh)

	out, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	kept := `"size": "small",
            "deadline": "2025-04-01",
            "create_date": "2025-03-01",`
	if !strings.Contains(s, kept) {
		t.Errorf("deadline not placed after size:\n%s", s)
	}
	created := `"3": {
            "title": "New",
            "description": "",
            "priority": "low",
            "size": "small",
            "deadline": null,
            "issue": null,`
	if !strings.Contains(s, created) {
		t.Errorf("new record not canonical:\n%s", s)
	}

	doc.Remove(2)
	if _, ok := doc.layouts[2]; ok {
		t.Error("layout kept after Remove")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	rec := func(isDone, doneDate string) string {
		return `{"title": "a", "description": "b", "priority": "low", "size": "small",
			"deadline": null, "issue": null, "create_date": "2025-01-01",
			"done_date": ` + doneDate + `, "is_done": "` + isDone + `"}`
	}
	open := rec("no", "null")
	closed := rec("yes", `"2025-01-02"`)

	tests := map[string]string{
		"malformed":          `{"id_count": 1,`,
		"not an object":      `[]`,
		"missing category":   `{"id_count": 0, "todo": {}, "active": {}}`,
		"unknown top key":    `{"id_count": 0, "todo": {}, "active": {}, "done": {}, "extra": 1}`,
		"negative counter":   `{"id_count": -1, "todo": {}, "active": {}, "done": {}}`,
		"non-integer key":    `{"id_count": 1, "todo": {"one": ` + open + `}, "active": {}, "done": {}}`,
		"zero key":           `{"id_count": 1, "todo": {"0": ` + open + `}, "active": {}, "done": {}}`,
		"missing title":      `{"id_count": 1, "todo": {"1": {"description": "b"}}, "active": {}, "done": {}}`,
		"duplicate id":       `{"id_count": 1, "todo": {"1": ` + open + `}, "active": {"1": ` + open + `}, "done": {}}`,
		"low counter":        `{"id_count": 1, "todo": {"3": ` + open + `}, "active": {}, "done": {}}`,
		"done flag in todo":  `{"id_count": 1, "todo": {"1": ` + closed + `}, "active": {}, "done": {}}`,
		"open task in done":  `{"id_count": 1, "todo": {}, "active": {}, "done": {"1": ` + open + `}}`,
		"bad create date":    `{"id_count": 1, "todo": {"1": ` + strings.Replace(open, "2025-01-01", "01/01/2025", 1) + `}, "active": {}, "done": {}}`,
		"bad is_done value":  `{"id_count": 1, "todo": {"1": ` + rec("maybe", "null") + `}, "active": {}, "done": {}}`,
		"done date not done": `{"id_count": 1, "todo": {"1": ` + rec("no", `"2025-01-02"`) + `}, "active": {}, "done": {}}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("bad.json", []byte(input))
			if !clierr.HasCode(err, clierr.CorruptDocument) {
				t.Fatalf("err = %v, want CORRUPT_DOCUMENT", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !clierr.HasCode(err, clierr.ListNotFound) {
		t.Fatalf("Load = %v, want LIST_NOT_FOUND", err)
	}
	if !clierr.IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
}

func TestCreateEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists", "work.json")
	if err := CreateEmpty(path, false); err != nil {
		t.Fatalf("CreateEmpty: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"id_count\": 0,\n    \"todo\": {},\n    \"active\": {},\n    \"done\": {}\n}\n"
	if string(data) != want {
		t.Errorf("empty document =\n%s", data)
	}

	if err := CreateEmpty(path, false); !clierr.HasCode(err, clierr.AlreadyExists) {
		t.Errorf("second CreateEmpty = %v, want ALREADY_EXISTS", err)
	}
	if err := CreateEmpty(path, true); err != nil {
		t.Errorf("overwrite: %v", err)
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.json")
	doc, err := Decode(path, []byte(canonical))
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 3 {
		t.Errorf("Len = %d", loaded.Len())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}
