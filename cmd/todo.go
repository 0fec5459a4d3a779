package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/listdir"
	"github.com/twiced-technology-gmbh/check/internal/output"
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"lists"},
	Short:   "Manage task lists",
	Long: `Creates, switches between, shows and removes task lists. List names are
lowercase letters and digits separated by single underscores (e.g. home_chores).`,
}

var todoNewCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a new list",
	Long:  `Creates an empty list. The first list created becomes the active list.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoNew,
}

var todoUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Make a list the active list",
	Long: `Switches the active list. When the list does not exist and the terminal is
interactive, offers to create it.`,
	Args: cobra.ExactArgs(1),
	RunE: runTodoUse,
}

var todoShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all lists",
	Args:  cobra.NoArgs,
	RunE:  runTodoShow,
}

var todoRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm"},
	Short:   "Remove an inactive list",
	Long: `Unregisters an inactive list and moves its document into the deleted
directory of the data directory. Prompts for confirmation in interactive mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runTodoRemove,
}

func init() {
	todoNewCmd.Flags().BoolP("use", "u", false, "make the new list active")
	todoRemoveCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	todoCmd.AddCommand(todoNewCmd, todoUseCmd, todoShowCmd, todoRemoveCmd)
	rootCmd.AddCommand(todoCmd)
}

func runTodoNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	use, _ := cmd.Flags().GetBool("use")

	dir, err := openDirectory()
	if err != nil {
		return err
	}
	if err := dir.Create(name, use); err != nil {
		return err
	}
	return printLists(dir, "Created list %q", name)
}

func runTodoUse(_ *cobra.Command, args []string) error {
	name := args[0]

	dir, err := openDirectory()
	if err != nil {
		return err
	}

	err = dir.Use(name)
	if clierr.HasCode(err, clierr.ListNotFound) && isInteractive() {
		ok, cerr := confirm(fmt.Sprintf("There is no list named %q. Create it?", name))
		if cerr != nil {
			return cerr
		}
		if !ok {
			return err
		}
		err = dir.Create(name, true)
	}
	if err != nil {
		return err
	}
	return printLists(dir, "Now using list %q", name)
}

func runTodoShow(_ *cobra.Command, _ []string) error {
	dir, err := openDirectory()
	if err != nil {
		return err
	}

	active, inactive := dir.Names()
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, listsResult(active, inactive))
	}
	output.ListsTable(os.Stdout, active, inactive)
	return nil
}

func runTodoRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	yes, _ := cmd.Flags().GetBool("yes")

	dir, err := openDirectory()
	if err != nil {
		return err
	}

	if !yes {
		// Surface name and state errors before asking.
		if _, err := dir.Resolve(name); err != nil {
			return err
		}
		ok, err := confirm(fmt.Sprintf("Remove the list %q?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return nil
		}
	}

	if err := dir.Remove(name); err != nil {
		return err
	}
	return printLists(dir, "Removed list %q (moved to %s)", name, dir.Config().DeletedPath())
}

// printLists prints the list registry as JSON, or a one-line confirmation.
func printLists(dir *listdir.Directory, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, listsResult(dir.Names()))
	}
	output.Messagef(os.Stdout, format, args...)
	return nil
}

func listsResult(active string, inactive []string) output.Lists {
	if inactive == nil {
		inactive = []string{}
	}
	return output.Lists{Active: active, Inactive: inactive}
}
