package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/check/internal/activity"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/query"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

const (
	maxTitleW = 30
	maxDescW  = 40
	detailW   = 72
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("67"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))

	colorEnabled = true
)

// DisableColor strips all styling from output.
func DisableColor() {
	colorEnabled = false
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	activeStyle = lipgloss.NewStyle()
}

// ColorEnabled reports whether styled output is on.
func ColorEnabled() bool { return colorEnabled }

// Theme colors task values with the palette from the settings.
type Theme struct {
	cfg   *config.Config
	today date.Date
}

// NewTheme returns a Theme for cfg. today drives deadline coloring.
func NewTheme(cfg *config.Config, today date.Date) Theme {
	return Theme{cfg: cfg, today: today}
}

func (th Theme) priority(v string) string { return colorize(v, th.cfg.PriorityColor(v)) }

func (th Theme) size(v string) string { return colorize(v, th.cfg.SizeColor(v)) }

func (th Theme) deadline(t *task.Task) string {
	state := query.DeadlineState(t, th.cfg.Deadline.Warning, th.today)
	return colorize(query.Value(t, query.FieldDeadline), state.Color(th.cfg.Deadline.Colors))
}

func (th Theme) done(t *task.Task) string {
	flag := t.DoneFlag()
	if t.IsComplete {
		return colorize(flag, th.cfg.IsDone.Colors.Yes)
	}
	return colorize(flag, th.cfg.IsDone.Colors.No)
}

// TaskTable renders tasks as a table under a heading (usually the category).
func TaskTable(w io.Writer, heading string, tasks []*task.Task, th Theme) {
	if heading != "" {
		fmt.Fprintln(w, titleStyle.Render(strings.ToUpper(heading)))
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no tasks"))
		return
	}

	const pad = 2
	idW, titleW, descW, prioW, sizeW := 4, 7, 13, 10, 6
	for _, t := range tasks {
		idW = max(idW, len(t.ID.String())+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title), maxTitleW)+pad)
		descW = max(descW, min(lipgloss.Width(firstLine(t.Description)), maxDescW)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		sizeW = max(sizeW, len(t.Size)+pad)
	}
	const dateW = 12

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", titleW, "TITLE", descW, "DESCRIPTION", prioW, "PRIORITY",
		sizeW, "SIZE", dateW, "DEADLINE", dateW, "CREATED", dateW, "DONE DATE", "DONE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*s %s %s %s %s %s %s %s %s",
			idW, t.ID.String(),
			padRight(cell(t.Title, maxTitleW), titleW),
			padRight(cell(firstLine(t.Description), maxDescW), descW),
			padRight(th.priority(t.Priority), prioW),
			padRight(th.size(t.Size), sizeW),
			padRight(th.deadline(t), dateW),
			padRight(t.Created.String(), dateW),
			padRight(orDash(query.Value(t, query.FieldDone)), dateW),
			th.done(t))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// rendered as markdown.
func TaskDetail(w io.Writer, t *task.Task, th Theme) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("-", lipgloss.Width(titleLine)))

	printField(w, "Category", t.Category.String())
	printField(w, "Priority", th.priority(t.Priority))
	printField(w, "Size", th.size(t.Size))
	printField(w, "Deadline", th.deadline(t))
	if t.Issue != nil {
		printField(w, "Issue", *t.Issue)
	} else {
		printField(w, "Issue", dimStyle.Render("--"))
	}
	printField(w, "Created", t.Created.String())
	if t.Completed != nil {
		printField(w, "Done date", t.Completed.String())
		printField(w, "Lead time", days(t.Created.DaysUntil(*t.Completed)))
	}
	printField(w, "Done", th.done(t))

	if desc := Markdown(t.Description, detailW, colorEnabled); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, desc)
	}
}

// SummaryTable renders a list summary as a dashboard.
func SummaryTable(w io.Writer, s query.Summary, th Theme) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.List))
	fmt.Fprintf(w, "Total: %d tasks (next id %d)\n\n", s.TotalTasks, s.IDCount+1)

	const colW = 16
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s %8s", colW, "CATEGORY", "COUNT", "OVERDUE")))
	for _, cs := range s.Categories {
		fmt.Fprintf(w, "%-*s %6d %8d\n", colW, cs.Category, cs.Count, cs.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(th.priority(pc.Name), colW), pc.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "SIZE", "COUNT")))
	for _, sc := range s.Sizes {
		fmt.Fprintf(w, "%s %6d\n", padRight(th.size(sc.Name), colW), sc.Count)
	}
}

// GroupedTable renders a grouped summary with per-group category counts.
func GroupedTable(w io.Writer, groups []query.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))
		for _, cs := range g.Categories {
			if cs.Count == 0 {
				continue
			}
			const groupW = 16
			fmt.Fprintf(w, "  %-*s %d\n", groupW, cs.Category, cs.Count)
		}
	}
}

// ListsTable renders the registered lists, marking the active one.
func ListsTable(w io.Writer, active string, inactive []string) {
	if active == "" && len(inactive) == 0 {
		fmt.Fprintln(os.Stderr, "No lists found.")
		return
	}
	if active != "" {
		fmt.Fprintln(w, activeStyle.Render(active+" <- active"))
	}
	for _, name := range inactive {
		fmt.Fprintln(w, name)
	}
}

// ActivityTable renders activity log entries.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-20s %-10s %-6s %s", "TIME", "ACTION", "ID", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		row := fmt.Sprintf("%-20s %-10s %-6s %s",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.TaskID, e.Detail)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func colorize(s, code string) string {
	if !colorEnabled || code == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render(s)
}

// cell truncates s to width visible columns with an ellipsis.
func cell(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "...") //nolint:gosec // width is a small positive constant
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func orDash(s string) string {
	if s == task.NoneValue {
		return dimStyle.Render("--")
	}
	return s
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(n) + " days"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
