package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/check/internal/tui"
	"github.com/twiced-technology-gmbh/check/internal/watcher"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"tui"},
	Short:   "Open the interactive board",
	Long: `Opens a terminal board with a column per category. Tasks can be started,
completed, moved back and deleted from the keyboard. The board reloads
automatically when the list document changes on disk. Press ? for help.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(_ *cobra.Command, _ []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}

	model := tui.NewBoard(s, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startBoardWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startBoardWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		logger.Warn("live reload disabled", "err", err)
		return
	}
	defer w.Close()
	w.Run(ctx, nil)
}
