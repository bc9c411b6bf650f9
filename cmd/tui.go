package cmd

import (
	"context"
	"fmt"
	"os"

	errors "github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/cmd/tui"
	"github.com/Laisky/gitpress/library/log"
)

var tuiCMD = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive admin console",
	Long: `Launch an interactive terminal admin console for the content
repository: browse posts, inspect a record, delete it.

Keyboard shortcuts:
  ↑/↓ or j/k  Navigate posts
  Enter       Open the selected post
  d           Delete (with confirmation)
  r           Refresh from the content repository
  /           Filter by title
  Esc         Go back
  q           Quit`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(tuiCMD)
}

// runTUI starts the interactive admin console and returns any start/run error.
func runTUI() error {
	svc, err := newServices(context.Background())
	if err != nil {
		return errors.Wrap(err, "new services")
	}

	p := tea.NewProgram(
		tui.NewModel(svc.posts),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return errors.WithStack(err)
}
