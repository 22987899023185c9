// ABOUTME: Configuration management for graph traversal runtime settings
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds runtime settings for the traversal
type Config struct {
	// Number of pool workers; values below 1 fall back to the default
	Workers int `toml:"workers"`

	// Visit every component instead of only the one reachable from the seed
	AllComponents bool `toml:"all_components"`

	// Milliseconds between progress line refreshes in CLI mode
	ProgressIntervalMS int `toml:"progress_interval_ms"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/graphsum/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./graphsum.toml"); err == nil {
		return "./graphsum.toml"
	}

	// Then try ~/.config/graphsum/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./graphsum.toml"
	}

	return filepath.Join(home, ".config", "graphsum", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse TOML
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	// Encode config as TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default traversal configuration. Four workers
// matches the fixed thread count the original tool used.
func DefaultConfig() Config {
	return Config{
		Workers:            4,
		AllComponents:      false,
		ProgressIntervalMS: 500,
	}
}
