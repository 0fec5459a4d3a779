package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/output"
	"github.com/twiced-technology-gmbh/check/internal/query"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tasks across all categories",
	Long: `Finds tasks whose fields contain the given values (case-insensitive).
All given criteria must match. --is-done takes yes or no and matches exactly.
Search for "None" to find tasks without a deadline, issue or done date.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

// searchShorthands gives the common fields a one-letter flag.
var searchShorthands = map[query.Field]string{
	query.FieldTitle:       "t",
	query.FieldDescription: "d",
	query.FieldPriority:    "p",
	query.FieldSize:        "s",
	query.FieldIssue:       "i",
}

func init() {
	for _, f := range query.Fields {
		searchCmd.Flags().StringP(flagName(f), searchShorthands[f], "", "match "+string(f))
	}
	searchCmd.Flags().String("sort", "", "sort field ("+strings.Join(query.SortFields, ", ")+")")
	searchCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	normalizeFlags(searchCmd.Flags(), descriptionFlagAliases)
	rootCmd.AddCommand(searchCmd)
}

func flagName(f query.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func runSearch(cmd *cobra.Command, _ []string) error {
	crit := make(query.Criteria)
	for _, f := range query.Fields {
		if v := changedString(cmd, flagName(f)); v != nil {
			crit[f] = *v
		}
	}
	if len(crit) == 0 {
		return clierr.New(clierr.InvalidInput, "give at least one search field (e.g. --title)")
	}
	if v, ok := crit[query.FieldIsDone]; ok && v != "yes" && v != "no" {
		return clierr.Newf(clierr.InvalidInput, "invalid --is-done %q (allowed: yes, no)", v)
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	if sortBy != "" {
		if err := query.ValidateSortField(sortBy); err != nil {
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

	tasks := query.Matches(doc, crit)
	if sortBy != "" {
		query.Sort(tasks, sortBy, reverse, cfg)
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, nonNil(tasks))
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}
	output.TaskTable(os.Stdout, "", tasks, theme(cfg))
	return nil
}
