package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available missions",
	Long: `Shows every mission in curriculum order: the built-in missions plus any
found in the --missions directory.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	a, err := setup(setupOptions{})
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	missions := registry.List()
	if len(missions) == 0 {
		fmt.Println("No missions available.")
		return
	}

	fmt.Println("Available missions:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range missions {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, m := range missions {
		fmt.Printf("  %-*s  %s\n", maxIDLen, m.ID, m.Title)
	}

	fmt.Println()
	fmt.Println("Run 'ecuations play <id>' to play a mission.")
}
