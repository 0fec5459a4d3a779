package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

func TestDetect(t *testing.T) {
	t.Setenv(EnvFormat, "")
	if Detect(false, false, false) != FormatTable {
		t.Error("default is not table")
	}
	if Detect(true, true, true) != FormatJSON {
		t.Error("--json does not win")
	}
	t.Setenv(EnvFormat, "compact")
	if Detect(false, false, false) != FormatCompact {
		t.Error("CHECK_OUTPUT=compact ignored")
	}
	if Detect(false, true, false) != FormatTable {
		t.Error("--table does not override env")
	}
}

func sampleTask() *task.Task {
	deadline := date.New(2025, time.April, 1)
	return &task.Task{
		ID: 7, Category: task.Active, Title: "Write report",
		Description: "Quarterly **numbers**\nsecond line",
		Priority:    "high", Size: "medium", Deadline: &deadline,
		Created: date.New(2025, time.March, 1),
	}
}

func TestCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, []*task.Task{sampleTask()})
	want := "#7 [active/high/medium] Write report due:2025-04-01\n"
	if buf.String() != want {
		t.Errorf("TaskCompact = %q, want %q", buf.String(), want)
	}
}

func TestTaskTablePlain(t *testing.T) {
	DisableColor()
	th := NewTheme(config.NewDefault(), date.New(2025, time.March, 10))

	long := sampleTask()
	long.ID = 8
	long.Title = strings.Repeat("x", 60)

	var buf bytes.Buffer
	TaskTable(&buf, "active", []*task.Task{sampleTask(), long}, th)
	out := buf.String()

	for _, want := range []string{"ACTIVE", "ID", "DONE DATE", "Write report", "Quarterly **numbers**", "2025-04-01", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "second line") {
		t.Error("table shows more than the first description line")
	}
	if strings.Contains(out, strings.Repeat("x", 31)) || !strings.Contains(out, "...") {
		t.Errorf("long title not truncated:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("ANSI escapes with color disabled")
	}

	buf.Reset()
	TaskTable(&buf, "done", nil, th)
	if !strings.Contains(buf.String(), "no tasks") {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestTaskDetailPlain(t *testing.T) {
	DisableColor()
	th := NewTheme(config.NewDefault(), date.New(2025, time.March, 10))

	var buf bytes.Buffer
	TaskDetail(&buf, sampleTask(), th)
	out := buf.String()
	for _, want := range []string{"Task #7: Write report", "Category:", "active", "Issue:", "numbers"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownFallsBackOnEmpty(t *testing.T) {
	if got := Markdown("  \n", 40, false); got != "" {
		t.Errorf("Markdown(blank) = %q", got)
	}
}
