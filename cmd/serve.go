package cmd

import (
	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for recall during sessions",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// The database is resolved per tool call, not at startup: the server
	// may outlive a project switch, and the store file may not exist yet.
	handlers := mcp.NewHandlers(func() (string, error) {
		projectDir, err := resolveProject()
		if err != nil {
			return "", err
		}
		return config.DBPath(projectDir), nil
	})

	return mcp.Serve(handlers)
}
