package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/platform/tui"
	"github.com/vovakirdan/ecuations-d/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mission picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a mission.
Leaving a mission (B/Esc while paused, over or finished) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play mission
  Tab          - Completion summaries
  Q            - Quit

Examples:
  ecuations menu
  ecuations menu --fps 30
  ecuations menu --db ./summaries.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	a, err := setup(setupOptions{audio: true, store: true})
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(a.store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsSummaries {
			goBack, sumErr := tui.RunSummaries(a.store, cfg.ScreenW, cfg.ScreenH)
			if sumErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sumErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(menuResult.MissionID)
		if err != nil {
			a.logger.Warn("mission not found", "mission", menuResult.MissionID, "error", err)
			goBack, nfErr := tui.RunNotFound(menuResult.MissionID, cfg)
			if nfErr != nil || !goBack {
				break
			}
			continue
		}

		a.logger.Info("mission started", "mission", game.ID())
		if err := tui.Run(game, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running mission: %v\n", err)
		}
		a.logger.Info("mission ended", "mission", game.ID(), "complete", game.State().Complete)
	}
}
