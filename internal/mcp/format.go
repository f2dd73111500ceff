package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

// formatSessionSummary renders the compact markdown block used by recall and
// list_sessions results.
func formatSessionSummary(s *model.Session) string {
	duration := "?"
	if s.DurationSeconds != nil {
		duration = formatDuration(*s.DurationSeconds)
	}
	branch := s.GitBranch
	if branch == "" {
		branch = "?"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## %s | %s | branch: %s\n", s.StartedDate(), duration, branch)
	fmt.Fprintf(&out, "**Session:** `%s`\n", s.ID)

	if s.Model != "" {
		fmt.Fprintf(&out, "**Model:** %s\n", s.Model)
	}

	if prompts := s.Prompts(); len(prompts) > 0 {
		out.WriteString("**Prompts:**\n")
		for _, prompt := range take(prompts, 2) {
			fmt.Fprintf(&out, "- %s\n", truncate(prompt, 150))
		}
		if len(prompts) > 2 {
			fmt.Fprintf(&out, "- _(+%d more)_\n", len(prompts)-2)
		}
	}

	if files := s.ModifiedList(); len(files) > 0 {
		names := make([]string, 0, 8)
		for _, f := range take(files, 8) {
			names = append(names, baseName(f))
		}
		fmt.Fprintf(&out, "**Files modified:** %s", strings.Join(names, ", "))
		if len(files) > 8 {
			fmt.Fprintf(&out, " (+%d)", len(files)-8)
		}
		out.WriteString("\n")
	}

	if commits := s.Commits(); len(commits) > 0 {
		out.WriteString("**Commits:**\n")
		for _, commit := range commits {
			fmt.Fprintf(&out, "- %s\n", commit)
		}
	}

	return out.String()
}

// formatSessionDetail extends the summary with full file, command, tool and
// token data for get_session.
func formatSessionDetail(s *model.Session) string {
	var out strings.Builder
	out.WriteString(formatSessionSummary(s))

	if files := s.ReadList(); len(files) > 0 {
		fmt.Fprintf(&out, "\n**Files read (%d):**\n", len(files))
		for _, f := range take(files, 20) {
			fmt.Fprintf(&out, "- %s\n", f)
		}
	}

	if cmds := s.Commands(); len(cmds) > 0 {
		fmt.Fprintf(&out, "\n**Commands (%d):**\n", len(cmds))
		for _, cmd := range cmds {
			fmt.Fprintf(&out, "- `%s`\n", cmd)
		}
	}

	if tools := s.Tools(); len(tools) > 0 {
		type toolCount struct {
			name  string
			count int
		}
		sorted := make([]toolCount, 0, len(tools))
		for name, count := range tools {
			sorted = append(sorted, toolCount{name, count})
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].count != sorted[j].count {
				return sorted[i].count > sorted[j].count
			}
			return sorted[i].name < sorted[j].name
		})
		parts := make([]string, 0, len(sorted))
		for _, tc := range sorted {
			parts = append(parts, fmt.Sprintf("%s:%d", tc.name, tc.count))
		}
		fmt.Fprintf(&out, "\n**Tool usage:** %s\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&out, "\n**Tokens:** %d input / %d output\n", s.InputTokens, s.OutputTokens)

	return out.String()
}

func formatDuration(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func take(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
