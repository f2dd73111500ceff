package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/ingest"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a session transcript (called automatically by the SessionEnd hook)",
	RunE:  runIngest,
}

var (
	ingestTranscript string
	ingestFormat     string
)

func init() {
	ingestCmd.Flags().StringVar(&ingestTranscript, "transcript", "", "Transcript path (manual run, skips stdin)")
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "claude", "Transcript format: claude or copilot")
	rootCmd.AddCommand(ingestCmd)
}

// runIngest never returns an error: a failing SessionEnd hook would surface
// inside the agent session, so problems go to stderr and the exit code
// stays 0.
func runIngest(_ *cobra.Command, _ []string) error {
	var hook ingest.HookInput

	if ingestTranscript != "" {
		hook.TranscriptPath = ingestTranscript
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "claude-memory: reading hook input: %v\n", err)
			return nil
		}
		if err := json.Unmarshal(data, &hook); err != nil {
			fmt.Fprintf(os.Stderr, "claude-memory: malformed hook input: %v, skipping\n", err)
			return nil
		}
	}
	if flagProject != "" && hook.Cwd == "" {
		hook.Cwd = flagProject
	}

	cfg, _ := config.Load()

	res, err := ingest.Run(hook, ingest.Format(ingestFormat), ingest.Options{
		SkipEmpty: cfg.Hook.SkipEmpty,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "claude-memory: %v\n", err)
		return nil
	}

	if res.Stored {
		fmt.Fprintf(os.Stderr, "claude-memory: ingested session %s (%d prompts, %d files modified)\n",
			shortID(res.SessionID), res.Prompts, res.FilesModified)
		return nil
	}

	switch res.Reason {
	case ingest.ReasonAlreadyIngested, ingest.ReasonNoPrompts:
		// Routine skips stay quiet; the hook runs after every session.
	default:
		fmt.Fprintf(os.Stderr, "claude-memory: %s, skipping\n", res.Reason)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
