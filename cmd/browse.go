package cmd

import (
	"fmt"
	"os"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/tui"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse session memory interactively",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	projectDir, err := resolveProject()
	if err != nil {
		return err
	}

	dbPath := config.DBPath(projectDir)
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No memory database found. Run `claude-memory install` first.")
		return nil
	}

	cfg, _ := config.Load()
	return tui.Run(dbPath, cfg.Browse.SessionLimit)
}
