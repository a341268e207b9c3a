package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/registry"
)

var flagSummaryLimit int

var summariesCmd = &cobra.Command{
	Use:   "summaries [mission]",
	Short: "Show completion summaries",
	Long: `Display the most recent completion summaries, for one mission or all of
them, followed by the best run of each mission shown.

Examples:
  ecuations summaries
  ecuations summaries euler --limit 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSummaries,
}

func init() {
	summariesCmd.Flags().IntVar(&flagSummaryLimit, "limit", 10, "Number of summaries to show")
}

func runSummaries(_ *cobra.Command, args []string) {
	a, err := setup(setupOptions{store: true})
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	missionID := ""
	if len(args) == 1 {
		missionID = args[0]
		if !registry.Exists(missionID) {
			a.Close()
			fmt.Fprintf(os.Stderr, "Error: unknown mission %q\n", missionID)
			fmt.Fprintln(os.Stderr, "Run 'ecuations list' to see available missions.")
			os.Exit(1)
		}
	}

	store := a.store
	if store == nil {
		a.Close()
		fatal("cannot open summaries database %s", flagDBPath)
	}

	entries, err := store.History(missionID, flagSummaryLimit)
	if err != nil {
		a.Close()
		fatal("retrieving summaries: %v", err)
	}

	if missionID == "" {
		fmt.Println("Summaries - all missions")
	} else {
		fmt.Printf("Summaries - %s\n", missionID)
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No completed runs yet.")
		return
	}

	fmt.Printf("  %-16s  %-22s  %4s  %5s  %9s  %5s  %4s\n", "Date", "Mission", "Eq", "Coins", "Treasures", "Lives", "Ammo")
	fmt.Printf("  %-16s  %-22s  %4s  %5s  %9s  %5s  %4s\n", "----", "-------", "--", "-----", "---------", "-----", "----")
	seen := make(map[string]bool)
	var order []string
	for _, e := range entries {
		fmt.Printf("  %-16s  %-22s  %4d  %5d  %9d  %5d  %4d\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.MissionID, e.EquationsSolved, e.Coins, e.Treasures, e.Lives, e.Ammo)
		if !seen[e.MissionID] {
			seen[e.MissionID] = true
			order = append(order, e.MissionID)
		}
	}

	fmt.Println()
	for _, id := range order {
		if best, ok, err := store.Best(id); err == nil && ok {
			fmt.Printf("Best %s: %d equations, %d coins (%s)\n",
				id, best.EquationsSolved, best.Coins, best.Timestamp.Local().Format("2006-01-02"))
		}
	}
}
