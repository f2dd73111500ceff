package cmd

import (
	"fmt"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/cli"
	"github.com/christianWissmann85/claude-memory-hook/internal/config"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search past sessions from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 5, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		cfg, _ := config.Load()
		if cfg.Search.DefaultLimit > 0 {
			limit = cfg.Search.DefaultLimit
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

	results, _, err := st.SearchSessions(query, limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No sessions found matching: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d session(s) matching: %s\n\n", len(results), query)

	for _, s := range results {
		duration := "?"
		if s.DurationSeconds != nil {
			duration = cli.FormatDuration(*s.DurationSeconds)
		}
		branch := s.GitBranch
		if branch == "" {
			branch = "?"
		}

		fmt.Printf("--- %s | %s | branch: %s ---\n", s.StartedDate(), duration, branch)
		fmt.Printf("  ID: %s\n", s.ID)

		if prompts := s.Prompts(); len(prompts) > 0 {
			fmt.Printf("  First prompt: %s\n", cli.Truncate(prompts[0], 120))
		}

		if files := s.ModifiedList(); len(files) > 0 {
			names := make([]string, 0, 5)
			for _, f := range files {
				if len(names) == 5 {
					break
				}
				names = append(names, baseName(f))
			}
			fmt.Printf("  Files: %s\n", strings.Join(names, ", "))
		}

		fmt.Println()
	}

	return nil
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
