package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install hooks and MCP configuration",
	Long: "Adds the SessionEnd hook to ~/.claude/settings.json and registers\n" +
		"the claude-memory MCP server in the project's .mcp.json. Both edits\n" +
		"are idempotent.",
	RunE: runInstall,
}

var installYes bool

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(installCmd)
}

func runInstall(_ *cobra.Command, _ []string) error {
	projectDir, err := resolveProject()
	if err != nil {
		return err
	}

	cfg, _ := config.Load()
	settingsPath := filepath.Join(config.ClaudeDir(cfg), "settings.json")

	if !installYes {
		confirmed := true
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("Install the SessionEnd hook and MCP server for %s?", projectDir)).
			Affirmative("Install").
			Negative("Cancel").
			Value(&confirmed)
		if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Installation cancelled.")
			return nil
		}
	}

	if err := installGlobalHook(settingsPath); err != nil {
		return err
	}
	if err := installProjectMCP(projectDir); err != nil {
		return err
	}

	fmt.Println("Installation complete! Restart Claude Code to activate.")
	return nil
}

// installGlobalHook adds the SessionEnd hook to settings.json, preserving
// everything else in the file.
func installGlobalHook(settingsPath string) error {
	settings := map[string]any{}
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("parsing %s: %w", settingsPath, err)
		}
	}

	if hookInstalled(settings) {
		fmt.Printf("SessionEnd hook already installed in %s\n", settingsPath)
		return nil
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}
	sessionEnd, _ := hooks["SessionEnd"].([]any)
	sessionEnd = append(sessionEnd, map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": "claude-memory ingest",
				"timeout": 10,
			},
		},
	})
	hooks["SessionEnd"] = sessionEnd

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(settingsPath), err)
	}
	if err := writeJSON(settingsPath, settings); err != nil {
		return err
	}

	fmt.Printf("Added SessionEnd hook to %s\n", settingsPath)
	return nil
}

// hookInstalled reports whether any SessionEnd entry already runs
// claude-memory.
func hookInstalled(settings map[string]any) bool {
	hooks, _ := settings["hooks"].(map[string]any)
	sessionEnd, _ := hooks["SessionEnd"].([]any)
	for _, entry := range sessionEnd {
		m, _ := entry.(map[string]any)
		inner, _ := m["hooks"].([]any)
		for _, h := range inner {
			hm, _ := h.(map[string]any)
			if command, _ := hm["command"].(string); strings.Contains(command, "claude-memory") {
				return true
			}
		}
	}
	return false
}

// installProjectMCP registers the serve command in the project's .mcp.json.
func installProjectMCP(projectDir string) error {
	mcpPath := filepath.Join(projectDir, ".mcp.json")

	mcpCfg := map[string]any{}
	if data, err := os.ReadFile(mcpPath); err == nil {
		if err := json.Unmarshal(data, &mcpCfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	servers, ok := mcpCfg["mcpServers"].(map[string]any)
	if !ok {
		servers = map[string]any{}
		mcpCfg["mcpServers"] = servers
	}
	if _, exists := servers["claude-memory"]; exists {
		fmt.Printf("MCP server already configured in %s\n", mcpPath)
		return nil
	}
	servers["claude-memory"] = map[string]any{
		"command": "claude-memory",
		"args":    []any{"serve"},
	}

	if err := writeJSON(mcpPath, mcpCfg); err != nil {
		return err
	}

	fmt.Printf("Added claude-memory MCP server to %s\n", mcpPath)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
