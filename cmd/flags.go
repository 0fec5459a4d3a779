package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var descriptionFlagAliases = map[string]string{
	"desc": "description",
}

// normalizeFlags makes flags accept underscores in place of dashes
// (--is_done for --is-done) and resolves the given aliases.
func normalizeFlags(flags *pflag.FlagSet, aliases map[string]string) {
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		name = strings.ReplaceAll(name, "_", "-")
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return pflag.NormalizedName(name)
	})
}

// addTaskFieldFlags registers the flags shared by commands that set task
// fields (add, change).
func addTaskFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "task description (markdown)")
	cmd.Flags().StringP("priority", "p", "", "task priority")
	cmd.Flags().StringP("size", "s", "", "task size")
	cmd.Flags().String("deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringP("issue", "i", "", "external issue reference")
	normalizeFlags(cmd.Flags(), descriptionFlagAliases)
}

// changedString returns a pointer to the flag value if the flag was set on
// the command line, otherwise nil.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
