// Package transcript parses agent session transcripts into session metadata.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

const (
	maxPromptLen  = 2000
	maxCommandLen = 200
	maxCommands   = 50

	// Fallback snippet length when a commit message has no closing quote.
	maxCommitSnippet = 100
)

// rawEvent is one line of a Claude Code JSONL transcript. Only the fields
// the metadata extraction needs are decoded.
type rawEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Cwd       string      `json:"cwd"`
	GitBranch string      `json:"gitBranch"`
	Timestamp string      `json:"timestamp"`
	Summary   string      `json:"summary"`
	Message   *rawMessage `json:"message"`
}

type rawMessage struct {
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
	Usage   *rawUsage       `json:"usage"`
}

type rawUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// rawBlock is one element of an array-valued message content field.
type rawBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Name  string `json:"name"`
	Input *struct {
		FilePath string `json:"file_path"`
		Command  string `json:"command"`
	} `json:"input"`
}

// ParseClaude reads a Claude Code JSONL transcript and extracts session
// metadata. The file is streamed line by line so memory stays bounded on
// multi-hundred-megabyte transcripts; lines that fail to decode are skipped.
func ParseClaude(path string) (*model.SessionMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	meta := model.NewSessionMeta()
	seenCommands := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev rawEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}

		if ev.Timestamp != "" {
			if meta.FirstTimestamp == "" {
				meta.FirstTimestamp = ev.Timestamp
			}
			meta.LastTimestamp = ev.Timestamp
		}

		// Identity fields: first non-empty value wins
		if meta.SessionID == "" && ev.SessionID != "" {
			meta.SessionID = ev.SessionID
		}
		if meta.ProjectDir == "" && ev.Cwd != "" {
			meta.ProjectDir = ev.Cwd
		}
		if meta.GitBranch == "" && ev.GitBranch != "" {
			meta.GitBranch = ev.GitBranch
		}

		switch ev.Type {
		case "user":
			extractUserEvent(&ev, meta)
		case "assistant":
			extractAssistantEvent(&ev, meta, seenCommands)
		case "summary":
			if meta.Summary == "" && ev.Summary != "" {
				meta.Summary = ev.Summary
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	meta.ComputeDuration()
	return meta, nil
}

// extractUserEvent pulls prompts out of a user message. Content is either a
// plain string or an array of blocks; tool results and meta messages
// (content starting with '<') are not prompts.
func extractUserEvent(ev *rawEvent, meta *model.SessionMeta) {
	if ev.Message == nil || len(ev.Message.Content) == 0 {
		return
	}

	var text string
	if json.Unmarshal(ev.Message.Content, &text) == nil {
		addPrompt(meta, text)
		return
	}

	var blocks []rawBlock
	if json.Unmarshal(ev.Message.Content, &blocks) != nil {
		return
	}
	for _, b := range blocks {
		if b.Type == "tool_result" {
			continue
		}
		addPrompt(meta, b.Text)
	}
}

func addPrompt(meta *model.SessionMeta, text string) {
	if text == "" || strings.HasPrefix(text, "<") {
		return
	}
	meta.UserPrompts = append(meta.UserPrompts, truncate(text, maxPromptLen))
}

// extractAssistantEvent pulls model name, token usage, and tool activity out
// of an assistant message.
func extractAssistantEvent(ev *rawEvent, meta *model.SessionMeta, seenCommands map[string]struct{}) {
	msg := ev.Message
	if msg == nil {
		return
	}

	if meta.Model == "" && msg.Model != "" {
		meta.Model = msg.Model
	}

	// Cache tokens count as input
	if u := msg.Usage; u != nil {
		meta.InputTokens += u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
		meta.OutputTokens += u.OutputTokens
	}

	var blocks []rawBlock
	if json.Unmarshal(msg.Content, &blocks) != nil {
		return
	}

	for _, b := range blocks {
		if b.Type != "tool_use" || b.Name == "" {
			continue
		}
		meta.ToolCounts[b.Name]++

		if b.Input == nil {
			continue
		}
		switch b.Name {
		case "Write", "Edit":
			if b.Input.FilePath != "" {
				meta.FilesModified[b.Input.FilePath] = struct{}{}
			}
		case "Read":
			if b.Input.FilePath != "" {
				meta.FilesRead[b.Input.FilePath] = struct{}{}
			}
		case "Bash":
			recordCommand(meta, seenCommands, b.Input.Command)
		}
	}
}

func recordCommand(meta *model.SessionMeta, seen map[string]struct{}, cmd string) {
	if cmd == "" {
		return
	}

	truncated := truncate(cmd, maxCommandLen)
	if _, dup := seen[truncated]; !dup && len(meta.CommandsRun) < maxCommands {
		seen[truncated] = struct{}{}
		meta.CommandsRun = append(meta.CommandsRun, truncated)
	}

	if strings.Contains(cmd, "git commit") {
		if msg, ok := ExtractCommitMessage(cmd); ok {
			meta.GitCommits = append(meta.GitCommits, msg)
		}
	}
}

// ExtractCommitMessage pulls the commit message out of a git commit command
// line. It scans for the first `-m ` flag and takes the quoted string that
// follows; an unquoted remainder falls back to a truncated snippet. A quote
// opened but never closed yields nothing.
func ExtractCommitMessage(cmd string) (string, bool) {
	idx := strings.Index(cmd, "-m ")
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimSpace(cmd[idx+3:])
	if rest == "" {
		return "", false
	}
	if rest[0] == '"' || rest[0] == '\'' {
		end := strings.IndexByte(rest[1:], rest[0])
		if end < 0 {
			return "", false
		}
		return rest[1 : 1+end], true
	}
	return truncate(rest, maxCommitSnippet), true
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
