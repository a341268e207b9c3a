// ecuations is a terminal platformer about solving differential equations.
//
// Usage:
//
//	ecuations list                 - List available missions
//	ecuations play <mission>       - Play a mission
//	ecuations menu                 - Pick missions interactively
//	ecuations summaries [mission]  - Show completion summaries
//	ecuations serve                - Start SSH server for remote play
//	ecuations schema               - Write the mission JSON schema
//	ecuations lint <dir>           - Validate mission files
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--db <path>           - Set database path (default: ~/.ecuations/summaries.db)
//	--config <path>       - Custom tuning YAML
//	--missions <dir>      - Extra mission directory (default: ~/.ecuations/missions)
//	--difficulty <name>   - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
//	--mute                - Disable sound
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagMissions   string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
	flagMute       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ecuations",
	Short: "Ecuations-D - a differential equations platformer for the terminal",
	Long: `Ecuations-D is a side-scrolling platformer. Each mission walks through
the solution of a differential equation: collect its symbols, shoot the
enemies guarding them and reach the flag.

Available commands:
  list       - Show all missions
  play       - Play a specific mission directly
  menu       - Interactive mission picker
  summaries  - View completion summaries
  serve      - Start SSH server for remote play
  schema     - Write the mission descriptor JSON schema
  lint       - Validate mission files

Examples:
  ecuations list
  ecuations play euler
  ecuations play euler --difficulty easy
  ecuations menu --missions ./my-missions
  ecuations serve --ssh :2222
  ecuations summaries euler`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ecuations/summaries.db", "Path to summaries database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagMissions, "missions", "~/.ecuations/missions", "Directory with extra mission files")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard while the TUI runs)")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound effects and music")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(summariesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(lintCmd)
}
