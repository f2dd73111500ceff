// Package mcp exposes stored session memory to agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// serverName and serverVersion identify this server during the MCP
// handshake.
const (
	serverName    = "claude-memory"
	serverVersion = "0.1.0"
)

// NewServer builds an MCP server with all six memory tools registered.
func NewServer(handlers *Handlers) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(serverName, serverVersion)

	server.AddTool(mcp.Tool{
		Name:        "recall",
		Description: "Search past session memory for the current project. Returns matching sessions with context about what was discussed, files modified, and commands run. Use this to remember past work, find previous decisions, or recall how something was implemented.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (supports FTS5 syntax: AND, OR, NOT, \"exact phrase\")",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum results (default: 5, max: 20)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Recall)

	server.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent sessions for the current project. Shows date, duration, branch, and key files modified.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Max sessions to return (default: 10)",
				},
				"date_from": map[string]interface{}{
					"type":        "string",
					"description": "Filter sessions after this date (ISO format, e.g. 2026-02-01)",
				},
				"date_to": map[string]interface{}{
					"type":        "string",
					"description": "Filter sessions before this date (ISO format, e.g. 2026-02-21)",
				},
			},
		},
	}, handlers.ListSessions)

	server.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get full details of a past session including all user prompts, files modified/read, commands run, and git commits.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID (from recall or list_sessions results)",
				},
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetSession)

	server.AddTool(mcp.Tool{
		Name:        "log_note",
		Description: "Log a note for the current project. Use this to record decisions, rationale, architectural choices, or anything worth remembering across sessions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Note content (the decision, rationale, or information to remember)",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Tags for categorization (e.g. [\"decision\", \"architecture\", \"bug\"])",
				},
			},
			Required: []string{"content"},
		},
	}, handlers.LogNote)

	server.AddTool(mcp.Tool{
		Name:        "search_notes",
		Description: "Search notes by content or tag. Returns matching notes with timestamps and context.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "FTS5 search query for note content",
				},
				"tag": map[string]interface{}{
					"type":        "string",
					"description": "Filter notes by tag",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Max results (default: 10)",
				},
			},
		},
	}, handlers.SearchNotes)

	server.AddTool(mcp.Tool{
		Name:        "list_projects",
		Description: "List all projects on this machine that have claude-memory databases. Shows session counts, date ranges, and recent branches for each project. Use this to discover past work across projects.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum projects to return (default: 20)",
				},
			},
		},
	}, handlers.ListProjects)

	return server
}

// Serve runs the MCP server on stdio until stdin closes or a shutdown
// signal arrives. Stdout carries the protocol; operational output goes to
// stderr.
func Serve(handlers *Handlers) error {
	// Optional env overrides, e.g. CLAUDE_MEMORY_PROJECT
	_ = godotenv.Load()

	server := NewServer(handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetOutput(os.Stderr)
	log.Println("claude-memory MCP server starting on stdio...")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
