package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/mission"
	"github.com/vovakirdan/ecuations-d/internal/platform/tui"
	"github.com/vovakirdan/ecuations-d/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <mission>",
	Short: "Play a mission",
	Long: `Start playing the specified mission.

Controls:
  Left/A, Right/D  - Move
  Space/Up/W       - Jump
  X/F              - Shoot
  G                - Call the helper robot (one extra life)
  M                - Toggle music
  Tab              - Toggle hitbox overlay
  P                - Pause
  Enter            - Acknowledge the finish
  R                - Restart (after game over or finish)
  B/Esc            - Leave (while paused, over or finished)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy    - Extra lives, slower enemies, longer invulnerability
  normal  - Tuning as loaded
  hard    - One life, faster enemies, shorter invulnerability

Examples:
  ecuations play euler
  ecuations play fase --difficulty hard
  ecuations play my-mission --missions ./missions
  ecuations play euler --config ./tuning.yaml --log-file ./ecuations.log`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	missionID := args[0]

	a, err := setup(setupOptions{audio: true, store: true})
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	cfg := runtimeConfig()

	if _, err := a.catalog.Get(missionID); errors.Is(err, mission.ErrNotFound) || !registry.Exists(missionID) {
		a.logger.Warn("mission not found", "mission", missionID)
		if _, err := tui.RunNotFound(missionID, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Fprintf(os.Stderr, "Mission not found: %q\n", missionID)
		fmt.Fprintln(os.Stderr, "Run 'ecuations list' to see available missions.")
		a.Close()
		os.Exit(1)
	}

	game, err := registry.Create(missionID)
	if err != nil {
		a.Close()
		fatal("creating mission: %v", err)
	}

	a.logger.Info("mission started", "mission", missionID)
	if err := tui.Run(game, cfg); err != nil {
		a.Close()
		fatal("running mission: %v", err)
	}
	a.logger.Info("mission ended", "mission", missionID, "coins", game.State().Score)
}
