package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/check/internal/activity"
	"github.com/twiced-technology-gmbh/check/internal/query"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// TaskCompact renders tasks one per line.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with dates and description.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  created:" + t.Created.String()
	if t.Completed != nil {
		ts += " done:" + t.Completed.String()
	}
	if t.Issue != nil {
		ts += " issue:" + *t.Issue
	}
	fmt.Fprintln(w, ts)

	for _, line := range strings.Split(t.Description, "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

// SummaryCompact renders a list summary in compact format.
func SummaryCompact(w io.Writer, s query.Summary) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.List, s.TotalTasks)
	for _, cs := range s.Categories {
		line := "  " + cs.Category + ": " + strconv.Itoa(cs.Count)
		if cs.Overdue > 0 {
			line += " (" + strconv.Itoa(cs.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "Priority: "+joinCounts(s.Priorities))
	fmt.Fprintln(w, "Size: "+joinCounts(s.Sizes))
}

// ActivityCompact renders activity entries one per line.
func ActivityCompact(w io.Writer, entries []activity.Entry) {
	for _, e := range entries {
		line := e.Timestamp.Local().Format("2006-01-02T15:04:05") + " " + e.Action + " #" + e.TaskID
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func joinCounts(counts []query.OptionCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, c.Name+"="+strconv.Itoa(c.Count))
	}
	return strings.Join(parts, " ")
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + t.ID.String() + " [" + t.Category.String() + "/" + t.Priority + "/" + t.Size + "] " + t.Title
	if t.Deadline != nil {
		line += " due:" + t.Deadline.String()
	}
	if t.IsComplete {
		line += " done:" + t.Completed.String()
	}
	return line
}
