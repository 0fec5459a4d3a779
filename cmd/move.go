package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/output"
	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] todo|active",
	Short: "Move a task to todo or active",
	Long: `Moves a task between categories. The destination is todo or active; use
"check done" to complete a task. Moving a done task back reopens it and clears
its done date. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // ID and destination
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(_ *cobra.Command, args []string) error {
	ids, err := task.ParseIDs(args[0])
	if err != nil {
		return err
	}
	dest, err := task.ParseCategory(args[1])
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		return moveSingleTask(s, ids[0], dest)
	}

	return runBatch(ids, func(id task.ID) error {
		_, _, err := s.Move(id, dest)
		return err
	})
}

func moveSingleTask(s *store.Store, id task.ID, dest task.Category) error {
	t, changed, err := s.Move(id, dest)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.MoveResult{Task: t, Changed: changed})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%d is already in %s", t.ID, dest)
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d to %s: %s", t.ID, dest, t.Title)
	return nil
}
