package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/task"
)

var changeCmd = &cobra.Command{
	Use:     "change ID",
	Aliases: []string{"edit"},
	Short:   "Change the fields of a task",
	Long: `Updates the fields given as flags and leaves everything else untouched.
The task keeps its category. Pass --deadline none or --issue none to clear them.`,
	Args: cobra.ExactArgs(1),
	RunE: runChange,
}

func init() {
	changeCmd.Flags().StringP("title", "t", "", "new title")
	addTaskFieldFlags(changeCmd)
	rootCmd.AddCommand(changeCmd)
}

func runChange(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}

	t, err := s.Update(id, task.Patch{
		Title:       changedString(cmd, "title"),
		Description: changedString(cmd, "description"),
		Priority:    changedString(cmd, "priority"),
		Size:        changedString(cmd, "size"),
		Deadline:    changedString(cmd, "deadline"),
		Issue:       changedString(cmd, "issue"),
	})
	if err != nil {
		return err
	}
	return printTask(t, "Updated task #%d: %s", t.ID, t.Title)
}
