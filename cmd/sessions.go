package cmd

import (
	"fmt"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/config"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions",
	RunE:  runSessions,
}

var (
	sessionsLimit int
	sessionsFrom  string
	sessionsTo    string
)

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "l", 10, "Number of sessions to show")
	sessionsCmd.Flags().StringVar(&sessionsFrom, "from", "", "Only sessions started on or after this date (YYYY-MM-DD)")
	sessionsCmd.Flags().StringVar(&sessionsTo, "to", "", "Only sessions started on or before this date (YYYY-MM-DD)")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	limit := sessionsLimit
	if !cmd.Flags().Changed("limit") {
		cfg, _ := config.Load()
		if cfg.Search.ListLimit > 0 {
			limit = cfg.Search.ListLimit
		}
	}

	st, err := openExistingStore()
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	defer func() { _ = st.Close() }()

	sessions, err := st.ListSessions(limit, sessionsFrom, sessionsTo)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSIONS  showing %d", len(sessions))))
	fmt.Println()

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := "?"
		if s.DurationSeconds != nil {
			duration = cli.FormatDuration(*s.DurationSeconds)
		}
		branch := s.GitBranch
		if branch == "" {
			branch = "-"
		}
		prompt := ""
		if prompts := s.Prompts(); len(prompts) > 0 {
			prompt = cli.Truncate(prompts[0], 40)
		}

		rows = append(rows, []string{
			s.StartedDate(),
			duration,
			branch,
			prompt,
			cli.FormatTokens(s.InputTokens + s.OutputTokens),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Duration", "Branch", "First Prompt", "Tokens"},
		Rows:    rows,
	}))

	return nil
}
