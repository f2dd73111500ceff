package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagProject string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "claude-memory",
	Short: "Automatic session logging and recall for Claude Code",
	Long: "Distills coding-agent transcripts into per-project SQLite memory\n" +
		"and serves it back over MCP and the command line.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Project directory (default: detected from cwd)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// resolveProject returns the project directory for this invocation, honoring
// the --project flag over detection.
func resolveProject() (string, error) {
	if flagProject != "" {
		abs, err := filepath.Abs(flagProject)
		if err != nil {
			return "", fmt.Errorf("resolving --project: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("--project is not a directory: %s", flagProject)
		}
		return abs, nil
	}
	return config.DetectProjectDir()
}

// openExistingStore opens the current project's store for a read command.
// A missing database is not an error: the caller gets nil twice and the user
// gets the install hint.
func openExistingStore() (*store.Store, error) {
	projectDir, err := resolveProject()
	if err != nil {
		return nil, err
	}

	dbPath := config.DBPath(projectDir)
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No memory database found. Run `claude-memory install` first.")
		return nil, nil
	}

	return store.Open(dbPath)
}
