package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/document"
	"github.com/twiced-technology-gmbh/check/internal/output"
	"github.com/twiced-technology-gmbh/check/internal/query"
	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
	"github.com/twiced-technology-gmbh/check/internal/watcher"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the tasks of one category, or of all categories (the default).
--all, --todo, --active and --done are mutually exclusive.

Use --watch to keep the listing live-updating whenever the list document
changes on disk. Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolP("all", "a", false, "list tasks from every category")
	listCmd.Flags().Bool("todo", false, "list tasks in todo")
	listCmd.Flags().Bool("active", false, "list tasks in active")
	listCmd.Flags().Bool("done", false, "list tasks in done")
	listCmd.MarkFlagsMutuallyExclusive("all", "todo", "active", "done")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(query.SortFields, ", ")+"); default is stored order")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().BoolP("watch", "w", false, "live-update the listing on file changes")
	normalizeFlags(listCmd.Flags(), nil)
	rootCmd.AddCommand(listCmd)
}

// listOptions holds the parsed list flags.
type listOptions struct {
	categories []task.Category
	sortBy     string
	reverse    bool
}

func runList(cmd *cobra.Command, _ []string) error {
	opts := listOptions{categories: task.Categories}
	for _, c := range task.Categories {
		if on, _ := cmd.Flags().GetBool(c.String()); on {
			opts.categories = []task.Category{c}
		}
	}
	opts.sortBy, _ = cmd.Flags().GetString("sort")
	opts.reverse, _ = cmd.Flags().GetBool("reverse")
	if opts.sortBy != "" {
		if err := query.ValidateSortField(opts.sortBy); err != nil {
			return err
		}
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}

	if err := renderList(s, cfg, opts); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	return watchList(s, cfg, opts)
}

func renderList(s *store.Store, cfg *config.Config, opts listOptions) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}
	sections := listSections(doc, cfg, opts)

	switch outputFormat() {
	case output.FormatJSON:
		if len(sections) == 1 {
			return output.JSON(os.Stdout, nonNil(sections[0].tasks))
		}
		m := make(map[string][]*task.Task, len(sections))
		for _, sec := range sections {
			m[sec.category.String()] = nonNil(sec.tasks)
		}
		return output.JSON(os.Stdout, m)
	case output.FormatCompact:
		var all []*task.Task
		for _, sec := range sections {
			all = append(all, sec.tasks...)
		}
		output.TaskCompact(os.Stdout, all)
		return nil
	}

	th := theme(cfg)
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		output.TaskTable(os.Stdout, sec.category.String(), sec.tasks, th)
	}
	return nil
}

type listSection struct {
	category task.Category
	tasks    []*task.Task
}

func listSections(doc *document.Document, cfg *config.Config, opts listOptions) []listSection {
	sections := make([]listSection, 0, len(opts.categories))
	for _, c := range opts.categories {
		tasks := query.ListByCategory(doc, c)
		if opts.sortBy != "" {
			query.Sort(tasks, opts.sortBy, opts.reverse, cfg)
		}
		sections = append(sections, listSection{category: c, tasks: tasks})
	}
	return sections
}

func watchList(s *store.Store, cfg *config.Config, opts listOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{s.Path()}, func() {
		clearScreen()
		if renderErr := renderList(s, cfg, opts); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering list: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		logger.Warn("file watcher", "err", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}

func nonNil(tasks []*task.Task) []*task.Task {
	if tasks == nil {
		return []*task.Task{}
	}
	return tasks
}
