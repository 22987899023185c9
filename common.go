// ABOUTME: Shared initialization code for all modes (CLI and View)
// ABOUTME: Provides common graph loading, config setup, and validation logic

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"graphsum/config"
	"graphsum/graph"
)

var debugLog *log.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	GraphPath string
	Workers   int
	Seed      int
	All       bool
	DebugLog  bool
}

// GraphOptions contains options for loading graphs
type GraphOptions struct {
	Path    string
	Verbose bool
}

// RunContext contains the loaded graph and resolved settings
type RunContext struct {
	Graph  *graph.Graph
	Config config.Config
}

// InitializeGraph loads the graph and config, then applies flag overrides
func InitializeGraph(opts GraphOptions, runOpts RunOptions) (*RunContext, error) {
	g, err := LoadGraphForMode(opts)
	if err != nil {
		return nil, err
	}

	cfg, _ := config.LoadConfig(config.GetConfigPath())

	// Flags beat the config file
	if runOpts.Workers > 0 {
		cfg.Workers = runOpts.Workers
	}
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultConfig().Workers
	}
	if runOpts.All {
		cfg.AllComponents = true
	}
	if cfg.ProgressIntervalMS <= 0 {
		cfg.ProgressIntervalMS = config.DefaultConfig().ProgressIntervalMS
	}

	return &RunContext{
		Graph:  g,
		Config: cfg,
	}, nil
}

// LoadGraphForMode loads a graph file with validation
func LoadGraphForMode(opts GraphOptions) (*graph.Graph, error) {
	if opts.Verbose {
		fmt.Printf("Reading graph: %s\n", opts.Path)
	}

	g, err := graph.Read(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	if g.Len() == 0 {
		return nil, errors.New("graph has no nodes")
	}

	return g, nil
}

// validateSeed checks that the seed node exists in the graph
func validateSeed(g *graph.Graph, seed int) error {
	if seed < 0 || seed >= g.Len() {
		return fmt.Errorf("seed node %d out of range [0, %d)", seed, g.Len())
	}

	return nil
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if filename == "graphsum-debug.log" {
		fileInfo, _ := os.Stdout.Stat()
		if (fileInfo.Mode() & os.ModeCharDevice) != 0 {
			fmt.Printf("Debug logging enabled: %s\n", filename)
		}
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}
