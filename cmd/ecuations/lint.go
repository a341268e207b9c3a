package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/mission"
)

var flagLintWatch bool

var lintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Validate mission files",
	Long: `Load every mission file (.yaml, .yml, .json) under a directory and report
the problems that would stop it from being played. The directory defaults
to --missions.

With --watch, files are validated again each time they change.

Examples:
  ecuations lint ./missions
  ecuations lint --watch`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLint,
}

func init() {
	lintCmd.Flags().BoolVarP(&flagLintWatch, "watch", "w", false, "Re-validate files when they change")
}

func runLint(_ *cobra.Command, args []string) {
	dir := expandHome(flagMissions)
	if len(args) == 1 {
		dir = args[0]
	}

	bad, err := lintDir(dir)
	if err != nil {
		fatal("%v", err)
	}

	if !flagLintWatch {
		if bad > 0 {
			os.Exit(1)
		}
		return
	}

	watcher, err := mission.NewWatcher(dir)
	if err != nil {
		fatal("watching %s: %v", dir, err)
	}
	defer watcher.Close()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			lintFile(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-done:
			return
		}
	}
}

// lintDir reports every file under dir and returns how many failed.
func lintDir(dir string) (int, error) {
	results, err := mission.NewLoader(dir).Scan()
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		fmt.Printf("No mission files under %s\n", dir)
		return 0, nil
	}

	bad := 0
	ids := make(map[string]string)
	for _, r := range results {
		if r.Err != nil {
			bad++
			fmt.Printf("FAIL  %s\n      %v\n", r.Path, r.Err)
			continue
		}
		if prev, dup := ids[r.Mission.ID]; dup {
			bad++
			fmt.Printf("FAIL  %s\n      duplicate id %q (also in %s)\n", r.Path, r.Mission.ID, prev)
			continue
		}
		ids[r.Mission.ID] = r.Path
		fmt.Printf("ok    %s  (%s, %d steps)\n", r.Path, r.Mission.ID, len(r.Mission.Steps))
	}

	fmt.Printf("\n%d file(s), %d failed\n", len(results), bad)
	return bad, nil
}

func lintFile(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("gone  %s\n", path)
		return
	}
	m, err := mission.LoadFile(path)
	if err != nil {
		fmt.Printf("FAIL  %s\n      %v\n", path, err)
		return
	}
	fmt.Printf("ok    %s  (%s, %d steps)\n", path, m.ID, len(m.Steps))
}
