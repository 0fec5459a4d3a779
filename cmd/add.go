package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add [TITLE]",
	Aliases: []string{"create"},
	Short:   "Add a new task to todo",
	Long: `Adds a task to the todo category of the list.

The title can be given as a positional argument or with --title. A description
is required. Priority and size fall back to the defaults in the settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("title", "t", "", "task title (alternative to positional argument)")
	addTaskFieldFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title, err := resolveTitle(cmd, args)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}

	f := task.Fields{Title: title}
	f.Description, _ = cmd.Flags().GetString("description")
	f.Priority, _ = cmd.Flags().GetString("priority")
	f.Size, _ = cmd.Flags().GetString("size")
	f.Deadline, _ = cmd.Flags().GetString("deadline")
	f.Issue, _ = cmd.Flags().GetString("issue")

	t, err := s.Create(f)
	if err != nil {
		return err
	}
	return printTask(t, "Created task #%d: %s", t.ID, t.Title)
}

// resolveTitle takes the title from the positional argument or --title.
func resolveTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	switch {
	case len(args) > 0 && flagTitle != "":
		return "", clierr.New(clierr.InvalidInput, "provide the title as an argument or with --title, not both")
	case len(args) > 0:
		return args[0], nil
	case flagTitle != "":
		return flagTitle, nil
	}
	return "", clierr.New(clierr.InvalidInput, "a title is required").
		WithDetails(map[string]any{"field": "title"})
}
