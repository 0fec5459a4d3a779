package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/activity"
	"github.com/twiced-technology-gmbh/check/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the activity log of the list",
	Long:  `Displays the recorded task mutations of the list, oldest first.`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "show only the most recent N entries (0 for all)") //nolint:mnd // default page
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, _, err := openStore()
	if err != nil {
		return err
	}

	entries, err := activity.Read(s.ActivityPath(), limit)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		if entries == nil {
			entries = []activity.Entry{}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.ActivityCompact(os.Stdout, entries)
		return nil
	}
	output.ActivityTable(os.Stdout, entries)
	return nil
}
