package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

var startCmd = &cobra.Command{
	Use:   "start ID[,ID,...]",
	Short: "Move a task from todo to active",
	Long: `Starts work on a task by moving it from todo to active.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

var doneCmd = &cobra.Command{
	Use:     "done ID[,ID,...]",
	Aliases: []string{"complete"},
	Short:   "Mark a task as done",
	Long: `Moves a task from todo or active to done and records today as its done date.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
}

func runStart(_ *cobra.Command, args []string) error {
	return runTransition(args[0], (*store.Store).Start, "Started task #%d: %s")
}

func runDone(_ *cobra.Command, args []string) error {
	return runTransition(args[0], (*store.Store).Complete, "Completed task #%d: %s")
}

// runTransition applies a single-task store transition to every ID in arg.
func runTransition(arg string, op func(*store.Store, task.ID) (*task.Task, error), message string) error {
	ids, err := task.ParseIDs(arg)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		t, err := op(s, ids[0])
		if err != nil {
			return err
		}
		return printTask(t, message, t.ID, t.Title)
	}

	return runBatch(ids, func(id task.ID) error {
		_, err := op(s, id)
		return err
	})
}
