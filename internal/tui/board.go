// Package tui implements a terminal board for one check list: a column per
// category, with keys to start, complete, move and delete tasks.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/query"
	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewConfirmDelete
)

// Layout constants.
const (
	boardChrome   = 2 // blank line + status bar below the column area
	errorChrome   = 1 // extra line when an error is displayed
	maxDescLines  = 2
	maxColWidth   = 60
	tickInterval  = time.Minute // refreshes "today" for deadline colors
	cardChrome    = 4           // border (2) + padding (2)
	borderLines   = 2
	minTruncWidth = 4
)

// Board is the top-level bubbletea model.
type Board struct {
	store     *store.Store
	cfg       *config.Config
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	keys keyMap
	help help.Model

	deleteID    task.ID
	deleteTitle string
}

// column holds the tasks of one category.
type column struct {
	category  task.Category
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board over the list behind s.
func NewBoard(s *store.Store, cfg *config.Config) *Board {
	b := &Board{
		store: s,
		cfg:   cfg,
		now:   time.Now,
		keys:  defaultKeys(),
		help:  help.New(),
	}
	b.loadTasks()
	return b
}

// SetNow overrides the clock (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// WatchPaths returns the files whose changes should reload the board.
func (b *Board) WatchPaths() []string {
	return []string{b.store.Path()}
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewConfirmDelete {
		return b.viewDeleteConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, b.keys.ForceQuit) {
		return b, tea.Quit
	}
	if b.view == viewConfirmDelete {
		return b.handleDeleteKey(msg)
	}

	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Down):
		if col := b.currentColumn(); col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Start):
		b.mutate(func(id task.ID) error {
			_, err := b.store.Start(id)
			return err
		}, task.Active)
	case key.Matches(msg, b.keys.Complete):
		b.mutate(func(id task.ID) error {
			_, err := b.store.Complete(id)
			return err
		}, task.Done)
	case key.Matches(msg, b.keys.ToTodo):
		b.mutate(func(id task.ID) error {
			_, _, err := b.store.Move(id, task.Todo)
			return err
		}, task.Todo)
	case key.Matches(msg, b.keys.ToActive):
		b.mutate(func(id task.ID) error {
			_, _, err := b.store.Move(id, task.Active)
			return err
		}, task.Active)
	case key.Matches(msg, b.keys.Delete):
		if t := b.selectedTask(); t != nil {
			b.deleteID = t.ID
			b.deleteTitle = t.Title
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, b.keys.Reload):
		b.loadTasks()
	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return b, nil
}

// mutate applies op to the selected task, reloads, and follows the task into
// its new column.
func (b *Board) mutate(op func(task.ID) error, dest task.Category) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	id := t.ID
	if err := op(id); err != nil {
		b.err = err
		return
	}
	b.loadTasks()
	b.selectTask(id, dest)
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Confirm):
		if _, err := b.store.Delete(b.deleteID); err != nil {
			b.err = err
		}
		b.view = viewBoard
		b.loadTasks()
	case key.Matches(msg, b.keys.Cancel):
		b.view = viewBoard
	}
	return b, nil
}

// handleMouse selects the clicked card.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || b.view != viewBoard {
		return b, nil
	}

	colWidth := b.columnWidth()
	clicked := msg.X / colWidth
	if clicked >= len(b.columns) {
		return b, nil
	}
	b.activeCol = clicked

	col := &b.columns[clicked]
	lineY := msg.Y - 1 // column header
	cardLine := 0
	for row := col.scrollOff; lineY >= 0 && row < len(col.tasks); row++ {
		h := b.cardHeight(col.tasks[row], colWidth)
		if lineY < cardLine+h {
			b.activeRow = row
			b.ensureVisible()
			return b, nil
		}
		cardLine += h
	}
	b.clampRow()
	return b, nil
}

// loadTasks reads the document and rebuilds the columns.
func (b *Board) loadTasks() {
	doc, err := b.store.Document()
	if err != nil {
		b.err = err
		return
	}
	b.err = nil

	cols := make([]column, len(task.Categories))
	for i, c := range task.Categories {
		cols[i] = column{category: c, tasks: query.ListByCategory(doc, c)}
		if i < len(b.columns) {
			cols[i].scrollOff = b.columns[i].scrollOff
		}
	}
	b.columns = cols
	b.clampRow()
}

func (b *Board) selectTask(id task.ID, c task.Category) {
	for ci := range b.columns {
		if b.columns[ci].category != c {
			continue
		}
		for ri, t := range b.columns[ci].tasks {
			if t.ID == id {
				b.activeCol = ci
				b.activeRow = ri
				b.ensureVisible()
				return
			}
		}
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.tasks) {
		return nil
	}
	return col.tasks[b.activeRow]
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	if b.help.ShowAll {
		h += len(b.keys.FullHelp()[0])
	}
	return h
}

// visibleCards returns how many cards of col fit, leaving room for the
// header and the scroll indicators.
func (b *Board) visibleCards(col *column, width int) int {
	avail := b.height - b.chromeHeight() - 1
	if col.scrollOff > 0 {
		avail--
	}
	n := b.fitCards(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCards(col, avail-1, width), 1)
	}
	return n
}

func (b *Board) fitCards(col *column, avail, width int) int {
	used, count := 0, 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		h := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+h > avail {
			break
		}
		count++
		used += h
	}
	return max(count, 1)
}

// ensureVisible scrolls the active column so the selected row is shown.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	w := b.columnWidth()
	for range len(col.tasks) + 1 {
		n := b.visibleCards(col, w)
		switch {
		case b.activeRow >= col.scrollOff+n:
			col.scrollOff = b.activeRow - n + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically so deadline colors follow the date.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))

	overdueCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle     = lipgloss.NewStyle().Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

func colored(s, code string) string {
	if code == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render(s)
}

// --- View rendering ---

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()
	rendered := make([]string, len(b.columns))
	for i, col := range b.columns {
		rendered[i] = b.renderColumn(i, col, colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	// Clamp from the bottom (headers stay) or pad so the status bar is pinned.
	if target := b.height - b.chromeHeight(); target > 0 {
		lines := strings.Split(boardView, "\n")
		if len(lines) > target {
			lines = lines[:target]
		}
		for len(lines) < target {
			lines = append(lines, "")
		}
		boardView = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(idx int, col column, width int) string {
	headerText := clip(fmt.Sprintf("%s (%d)", strings.ToUpper(col.category.String()), len(col.tasks)), width-2) //nolint:mnd // header padding
	header := columnHeaderStyle.Width(width).Render(headerText)
	if idx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	}

	n := b.visibleCards(&col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+n, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for row := start; row < end; row++ {
		parts = append(parts, b.renderCard(col.tasks[row], idx == b.activeCol && row == b.activeRow, width))
	}
	if end < len(col.tasks) {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case query.Overdue(t, b.today()):
		style = overdueCardStyle
	}
	return style.Width(width - borderLines).Render(strings.Join(b.cardLines(t, width), "\n"))
}

func (b *Board) cardHeight(t *task.Task, width int) int {
	return len(b.cardLines(t, width)) + borderLines
}

func (b *Board) cardLines(t *task.Task, width int) []string {
	inner := max(width-cardChrome, 1)

	lines := []string{
		dimStyle.Render("#"+t.ID.String()+" ") + titleStyle.Render(clip(t.Title, inner-len(t.ID.String())-2)), //nolint:mnd // "#" and space
	}

	meta := colored(t.Priority, b.cfg.PriorityColor(t.Priority)) + " · " +
		colored(t.Size, b.cfg.SizeColor(t.Size))
	if t.Deadline != nil {
		state := query.DeadlineState(t, b.cfg.Deadline.Warning, b.today())
		meta += " · " + colored(t.Deadline.String(), state.Color(b.cfg.Deadline.Colors))
	}
	lines = append(lines, meta)

	desc := strings.Split(wordwrap.String(strings.TrimSpace(t.Description), inner), "\n")
	if len(desc) > maxDescLines {
		desc = desc[:maxDescLines]
		desc[maxDescLines-1] = clip(desc[maxDescLines-1]+" ...", inner)
	}
	for _, l := range desc {
		lines = append(lines, dimStyle.Render(clip(l, inner)))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	total := 0
	for _, c := range b.columns {
		total += len(c.tasks)
	}
	status := statusBarStyle.Render(clip(fmt.Sprintf(" %s | %d tasks | ", b.store.List(), total), b.width)) +
		b.help.View(b.keys)

	if b.err != nil {
		return errorStyle.Render(clip("Error: "+b.err.Error(), b.width)) + "\n" + status
	}
	return status
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", b.deleteID, b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

func (b *Board) today() date.Date {
	return date.Of(b.now())
}

func clip(s string, width int) string {
	return truncate.StringWithTail(s, uint(max(width, minTruncWidth)), "...") //nolint:gosec // width clamped positive
}
