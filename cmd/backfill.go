package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/ingest"

	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Bulk-ingest historical transcripts for this project",
	Long: "Parses every transcript under the Claude data directory and stores\n" +
		"the sessions that belong to the current project. Already-stored\n" +
		"sessions are skipped, so re-running is safe.",
	RunE: runBackfill,
}

var backfillClaudeDir string

func init() {
	backfillCmd.Flags().StringVar(&backfillClaudeDir, "claude-dir", "", "Claude data directory (default: ~/.claude)")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(_ *cobra.Command, _ []string) error {
	projectDir, err := resolveProject()
	if err != nil {
		return err
	}

	cfg, _ := config.Load()
	claudeDir := backfillClaudeDir
	if claudeDir == "" {
		claudeDir = config.ClaudeDir(cfg)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  %s", cli.RenderProgressBar(current, total, 30))
		}
	}

	res, err := ingest.Backfill(claudeDir, projectDir, ingest.Options{
		SkipEmpty: cfg.Hook.SkipEmpty,
	}, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && res.Scanned > 0 {
		fmt.Fprintln(os.Stderr)
	}

	if res.Scanned == 0 {
		fmt.Printf("No transcripts found under %s\n", filepath.Join(claudeDir, "projects"))
		return nil
	}

	fmt.Printf("Scanned %d transcript(s) for %s\n", res.Scanned, projectDir)
	fmt.Printf("  Stored:        %d\n", res.Stored)
	fmt.Printf("  Already known: %d\n", res.AlreadyKnown)
	fmt.Printf("  Other project: %d\n", res.OtherProject)
	if res.Empty > 0 {
		fmt.Printf("  Empty:         %d\n", res.Empty)
	}
	if res.Failed > 0 {
		fmt.Printf("  Failed:        %d\n", res.Failed)
	}

	return nil
}
