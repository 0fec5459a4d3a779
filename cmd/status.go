package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/output"
	"github.com/twiced-technology-gmbh/check/internal/query"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"summary"},
	Short:   "Show a summary of the list",
	Long: `Displays a summary of the list: task counts per category, overdue counts,
and the priority and size distribution.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("group-by", "", "group counts by field ("+strings.Join(query.GroupFields, ", ")+")")
	normalizeFlags(statusCmd.Flags(), nil)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" {
		if err := query.ValidateGroupField(groupBy); err != nil {
			return err
		}
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	doc, err := s.Document()
	if err != nil {
		return err
	}
	today := date.Today()

	if groupBy != "" {
		groups := query.GroupBy(query.ListAll(doc), groupBy, cfg, today)
		if outputFormat() == output.FormatJSON {
			if groups == nil {
				groups = []query.Group{}
			}
			return output.JSON(os.Stdout, groups)
		}
		output.GroupedTable(os.Stdout, groups)
		return nil
	}

	summary := query.Summarize(s.List(), doc, cfg, today)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.SummaryCompact(os.Stdout, summary)
		return nil
	}
	output.SummaryTable(os.Stdout, summary, theme(cfg))
	return nil
}
