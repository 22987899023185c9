// ABOUTME: CLI mode implementation for non-interactive graph summing
// ABOUTME: Handles progress display and result output for command-line usage

package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"
)

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// RunCLI executes CLI mode traversal
func RunCLI(opts RunOptions) error {
	if opts.DebugLog {
		if err := SetupDebugLog("graphsum-debug.log"); err != nil {
			return err
		}
	}

	rc, err := InitializeGraph(GraphOptions{
		Path:    opts.GraphPath,
		Verbose: true,
	}, opts)
	if err != nil {
		return err
	}

	if !rc.Config.AllComponents {
		if err := validateSeed(rc.Graph, opts.Seed); err != nil {
			return err
		}
	}

	if rc.Config.AllComponents {
		fmt.Printf("\nSumming all components of %d nodes with %d workers...\n",
			rc.Graph.Len(), rc.Config.Workers)
	} else {
		fmt.Printf("\nSumming the component of node %d (%d nodes total) with %d workers...\n",
			opts.Seed, rc.Graph.Len(), rc.Config.Workers)
	}

	res := cliTraverse(rc, opts)

	fmt.Println("\nNodes:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "#\tValue\tComponent"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "---\t-----\t---------"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	for id, value := range res.Values {
		component := "-"
		if res.Component[id] >= 0 {
			component = fmt.Sprintf("%d", res.Component[id])
		}

		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", id, value, component); err != nil {
			log.Printf("Warning: failed to write node %d: %v", id, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}

	if len(res.Sums) > 1 {
		fmt.Println()
		for c, sum := range res.Sums {
			fmt.Printf("Component %d sum: %d\n", c, sum)
		}
	}

	fmt.Printf("\nSum: %d\n", res.Total)

	return nil
}

// cliTraverse wraps the traversal with CLI-specific progress display
func cliTraverse(rc *RunContext, opts RunOptions) *Result {
	startTime := time.Now()

	// Create update channel for tracking progress
	updateChan := make(chan VisitUpdate, 10)
	tracker := newProgressTracker(updateChan, rc.Graph.Len())
	tr := NewTraversal(rc.Graph, tracker)

	// Detect if stdout is a TTY - no spinner needed in non-interactive contexts (cron, pipes, etc.)
	isTerminal := isTTY(os.Stdout)

	// Status line animation and ticker
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerIdx := 0

	var statusTicker *time.Ticker
	if isTerminal {
		statusTicker = time.NewTicker(time.Duration(rc.Config.ProgressIntervalMS) * time.Millisecond)
		defer statusTicker.Stop()
	}

	// Helper to print status line (overwrites itself in TTY, silent in non-TTY)
	var lastUpdate VisitUpdate
	printStatus := func() {
		if !isTerminal {
			// Non-TTY: skip spinner updates entirely to avoid log spam
			return
		}

		elapsed := time.Since(startTime).Round(time.Millisecond)
		fmt.Printf("\r%v %d/%d nodes, sum %d %s     ",
			elapsed, lastUpdate.Visited, lastUpdate.Total, lastUpdate.Sum, spinnerFrames[spinnerIdx])
		spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)
	}

	// Start the traversal in a goroutine
	done := make(chan *Result)

	go func() {
		if rc.Config.AllComponents {
			tr.SumAll(rc.Config.Workers)
		} else {
			tr.SumComponent(opts.Seed, rc.Config.Workers)
		}

		tracker.close()
		done <- tr.Result()
	}()

	// Monitor updates and print progress
	var result *Result
loop:
	for {
		select {
		case update, ok := <-updateChan:
			if !ok {
				// Channel closed, wait for the result
				result = <-done

				break loop
			}

			lastUpdate = update
			debugf("[VISIT] %d/%d sum=%d %.0f nodes/s",
				update.Visited, update.Total, update.Sum, update.NodesPerSec)

		case <-func() <-chan time.Time {
			if statusTicker != nil {
				return statusTicker.C
			}
			// Non-TTY: return never-firing channel
			return make(<-chan time.Time)
		}():
			printStatus()
		}
	}

	// Clear status line at end (TTY only)
	if isTerminal {
		fmt.Print("\r\033[K")
	}

	fmt.Printf("Visited %d of %d nodes in %v\n",
		result.Visited, rc.Graph.Len(), time.Since(startTime).Round(time.Millisecond))

	return result
}
