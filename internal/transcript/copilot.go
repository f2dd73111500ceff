package transcript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

// copilotSnapshot is the JSON document produced by the claude-memory-vscode
// GitHub Copilot Chat extension. Unlike Claude transcripts this is a single
// point-in-time capture, not an append-only log:
//
//	{
//	  "format": "copilot",
//	  "session_id": "<uuid>",
//	  "cwd": "/path/to/workspace",
//	  "captured_at": "2026-02-21T10:00:00Z",
//	  "model": "gpt-4o",
//	  "turns": [
//	    {"role": "user",      "content": "..."},
//	    {"role": "assistant", "content": "..."}
//	  ]
//	}
type copilotSnapshot struct {
	SessionID  string        `json:"session_id"`
	Cwd        string        `json:"cwd"`
	CapturedAt string        `json:"captured_at"`
	Model      string        `json:"model"`
	Turns      []copilotTurn `json:"turns"`
}

type copilotTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseCopilot extracts session metadata from a Copilot snapshot document.
// A snapshot that does not decode as JSON is a hard error; there is no
// line-level recovery for this format.
func ParseCopilot(data []byte) (*model.SessionMeta, error) {
	var snap copilotSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding copilot snapshot: %w", err)
	}

	meta := model.NewSessionMeta()
	meta.SessionID = snap.SessionID
	if meta.SessionID == "" {
		meta.SessionID = uuid.NewString()
	}
	meta.ProjectDir = snap.Cwd
	meta.Model = snap.Model

	// A snapshot has a single capture instant
	if snap.CapturedAt != "" {
		meta.FirstTimestamp = snap.CapturedAt
		meta.LastTimestamp = snap.CapturedAt
	}

	for _, turn := range snap.Turns {
		if turn.Role == "user" && strings.TrimSpace(turn.Content) != "" {
			meta.UserPrompts = append(meta.UserPrompts, truncate(turn.Content, maxPromptLen))
		}
	}

	meta.ComputeDuration()
	return meta, nil
}
