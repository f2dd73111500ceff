// Package cmd implements the claude-memory CLI commands.
package cmd

import (
	"fmt"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"

	"github.com/spf13/cobra"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "write a config file with the current values")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if configInit {
		if config.Exists() {
			return fmt.Errorf("config file already exists at %s", config.ConfigPath())
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", config.ConfigPath())
		fmt.Println()
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [general]")
	fmt.Printf("    Claude directory: %s\n", config.ClaudeDir(cfg))
	fmt.Println()

	fmt.Println("  [hook]")
	fmt.Printf("    Skip empty sessions: %v\n", cfg.Hook.SkipEmpty)
	fmt.Printf("    Timeout:             %ds\n", cfg.Hook.TimeoutSecs)
	fmt.Println()

	fmt.Println("  [search]")
	fmt.Printf("    Default limit: %d\n", cfg.Search.DefaultLimit)
	fmt.Printf("    List limit:    %d\n", cfg.Search.ListLimit)
	fmt.Println()

	fmt.Println("  [browse]")
	fmt.Printf("    Session limit: %d\n", cfg.Browse.SessionLimit)

	if !config.Exists() {
		fmt.Println()
		fmt.Println("  Run `claude-memory config --init` to write this file.")
	}
	return nil
}
