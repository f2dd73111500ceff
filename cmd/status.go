package cmd

import (
	"fmt"
	"os"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics for current project",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	projectDir, err := resolveProject()
	if err != nil {
		return err
	}

	dbPath := config.DBPath(projectDir)
	info, err := os.Stat(dbPath)
	if err != nil {
		fmt.Printf("No memory database found at %s\n", dbPath)
		fmt.Println("Run `claude-memory install` to set up automatic session logging.")
		return nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	noteCount, err := st.NoteCount()
	if err != nil {
		return err
	}
	summary, err := st.ProjectSummary()
	if err != nil {
		return err
	}

	fmt.Println("claude-memory status")
	fmt.Println("====================")
	fmt.Printf("Project:    %s\n", projectDir)
	fmt.Printf("Database:   %s\n", dbPath)
	fmt.Printf("DB size:    %s\n", cli.FormatBytes(info.Size()))
	fmt.Println()
	fmt.Printf("Sessions:   %d\n", stats.Sessions)
	fmt.Printf("Notes:      %d\n", noteCount)
	fmt.Printf("Tokens:     %s input / %s output\n",
		cli.FormatTokens(stats.InputTokens), cli.FormatTokens(stats.OutputTokens))

	if summary.FirstSession != "" && summary.LastSession != "" {
		fmt.Printf("Date range: %s to %s\n",
			datePart(summary.FirstSession), datePart(summary.LastSession))
	}

	return nil
}

func datePart(ts string) string {
	if len(ts) < 10 {
		return ts
	}
	return ts[:10]
}
