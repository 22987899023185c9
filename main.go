// ABOUTME: Entry point for the graphsum application
// ABOUTME: Handles command-line parsing, profiling, and routing to CLI or view modes

// Package main provides the entry point for graphsum, a parallel
// connected-component sum over graph files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	view := flag.Bool("view", false, "watch the graph file and recompute sums on change")
	debug := flag.Bool("debug", false, "enable debug logging to graphsum-debug.log")
	workers := flag.Int("workers", 0, "worker count for the pool (0: config file or default)")
	seed := flag.Int("seed", 0, "seed node for the traversal")
	all := flag.Bool("all", false, "sum every component, not just the seed's")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: graphsum [flags] <graph.txt>")
		fmt.Println("Example: graphsum -workers 4 testdata/chain.txt")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	graphPath := args[0]

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *view {
		if *debug {
			if err := SetupDebugLog("graphsum-debug.log"); err != nil {
				log.Printf("Failed to setup debug log: %v", err)

				return 1
			}
		}

		if err := RunViewMode(graphPath); err != nil {
			log.Printf("View error: %v", err)

			return 1
		}

		return 0
	}

	if err := RunCLI(RunOptions{
		GraphPath: graphPath,
		Workers:   *workers,
		Seed:      *seed,
		All:       *all,
		DebugLog:  *debug,
	}); err != nil {
		log.Printf("CLI error: %v", err)

		return 1
	}

	return 0
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
