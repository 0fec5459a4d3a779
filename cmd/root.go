// Package cmd implements the check CLI commands.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/check/internal/clierr"
	"github.com/twiced-technology-gmbh/check/internal/config"
	"github.com/twiced-technology-gmbh/check/internal/date"
	"github.com/twiced-technology-gmbh/check/internal/listdir"
	"github.com/twiced-technology-gmbh/check/internal/logging"
	"github.com/twiced-technology-gmbh/check/internal/output"
	"github.com/twiced-technology-gmbh/check/internal/store"
	"github.com/twiced-technology-gmbh/check/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagNoColor  bool
	flagLogLevel string
	flagList     string
)

// logger is replaced in PersistentPreRun once the level is known.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "check",
	Short: "Track tasks in named lists from the terminal",
	Long: `check keeps tasks in named lists stored as JSON documents. Every task lives
in one of three categories: todo, active or done.

Create a list with "check todo new NAME", add tasks with "check add", and move
them along with "check start" and "check done". Run "check board" for an
interactive board.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		opts := logging.DefaultOptions()
		if flagLogLevel != "" {
			opts.Level = logging.ParseLevel(flagLogLevel)
		}
		logger = logging.New(os.Stderr, opts)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"diagnostic log level: debug, info, warn, error (default from "+logging.EnvLevel+")")
	rootCmd.PersistentFlags().StringVarP(&flagList, "list", "l", "", "operate on this list instead of the active one")
	normalizeFlags(rootCmd.PersistentFlags(), nil)
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(Run())
}

// Run executes the root command and returns the process exit code.
func Run() int {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	var cliErr *clierr.Error
	if outputFormat() == output.FormatJSON {
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			return cliErr.ExitCode()
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		return 2 //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return 1
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// openDirectory bootstraps the data directory and returns the list directory.
func openDirectory() (*listdir.Directory, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Ensure(dataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded settings", "path", cfg.SettingsPath())
	return listdir.New(cfg, logger), nil
}

// openStore resolves the list named by --list (or the active list) and
// returns a store for its document. When no list exists at all and stdin is
// a terminal, the user is asked to create one first.
func openStore() (*store.Store, *config.Config, error) {
	dir, err := openDirectory()
	if err != nil {
		return nil, nil, err
	}

	path, err := dir.Resolve(flagList)
	if clierr.HasCode(err, clierr.NoActiveList) && noLists(dir) && isInteractive() {
		path, err = promptFirstList(dir, os.Stdin, os.Stderr)
	}
	if err != nil {
		return nil, nil, err
	}

	opts := store.OptionsFrom(dir.Config())
	opts.Logger = logger
	return store.New(path, opts), dir.Config(), nil
}

func noLists(dir *listdir.Directory) bool {
	active, inactive := dir.Names()
	return active == "" && len(inactive) == 0
}

// promptFirstList asks for a list name until a valid one is given, creates
// it as the active list and returns its document path.
func promptFirstList(dir *listdir.Directory, in io.Reader, out io.Writer) (string, error) {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "There are no task lists yet.")
	for {
		fmt.Fprint(out, "Enter a name for the first list (e.g. home_chores): ")
		line, err := reader.ReadString('\n')
		name := strings.TrimSpace(line)
		if name != "" {
			if verr := listdir.ValidName(name); verr != nil {
				fmt.Fprintln(out, verr)
			} else {
				if cerr := dir.Create(name, true); cerr != nil {
					return "", cerr
				}
				return dir.ActiveListPath()
			}
		}
		if err != nil {
			return "", clierr.New(clierr.NoActiveList,
				"no active list (create one with: check todo new NAME)")
		}
	}
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// confirm prompts on stderr and reads a y/N answer from stdin. Without a
// terminal it returns a CONFIRMATION_REQUIRED error instead.
func confirm(prompt string) (bool, error) {
	if !isInteractive() {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

// theme returns the table theme for cfg, colored against today's date.
func theme(cfg *config.Config) output.Theme {
	return output.NewTheme(cfg, date.Today())
}

// printTask prints a mutated task as JSON, or a one-line confirmation.
func printTask(t *task.Task, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, format, args...)
	return nil
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []task.ID, fn func(task.ID) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: id, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
