// Package ingest turns transcripts into stored session memory.
package ingest

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"
	"github.com/christianWissmann85/claude-memory-hook/internal/transcript"
)

// Format selects the transcript parser.
type Format string

const (
	FormatClaude  Format = "claude"
	FormatCopilot Format = "copilot"
)

// HookInput is the JSON payload Claude Code passes to SessionEnd hooks.
type HookInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Cwd            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`
}

// Options tunes a single ingestion run.
type Options struct {
	SkipEmpty bool
}

// Skip reasons surfaced in Result.Reason.
const (
	ReasonNoTranscriptPath = "no transcript_path in hook input"
	ReasonAlreadyIngested  = "already ingested"
	ReasonNoPrompts        = "no user prompts"
)

// Result reports what one ingestion run did. A skip is a success with Stored
// false and the reason filled in.
type Result struct {
	SessionID     string
	Stored        bool
	Reason        string
	Prompts       int
	FilesModified int
}

// Run ingests the transcript named by the hook input into the current
// project's store. Already-stored sessions and prompt-less sessions are
// skipped, not errors.
func Run(hook HookInput, format Format, opts Options) (*Result, error) {
	if hook.TranscriptPath == "" {
		return &Result{Reason: ReasonNoTranscriptPath}, nil
	}
	if _, err := os.Stat(hook.TranscriptPath); err != nil {
		return &Result{Reason: fmt.Sprintf("transcript not found: %s", hook.TranscriptPath)}, nil
	}

	projectDir := ""
	if hook.Cwd != "" {
		projectDir = config.FindProjectRoot(hook.Cwd)
	} else {
		detected, err := config.DetectProjectDir()
		if err != nil {
			return nil, err
		}
		projectDir = detected
	}

	s, err := store.Open(config.DBPath(projectDir))
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	if hook.SessionID != "" {
		exists, err := s.SessionExists(hook.SessionID)
		if err != nil {
			return nil, err
		}
		if exists {
			return &Result{SessionID: hook.SessionID, Reason: ReasonAlreadyIngested}, nil
		}
	}

	meta, err := parse(hook.TranscriptPath, format)
	if err != nil {
		return nil, err
	}

	if meta.SessionID == "" {
		if hook.SessionID != "" {
			meta.SessionID = hook.SessionID
		} else {
			meta.SessionID = uuid.NewString()
		}
	}
	if meta.ProjectDir == "" {
		meta.ProjectDir = projectDir
	}

	if opts.SkipEmpty && len(meta.UserPrompts) == 0 {
		return &Result{SessionID: meta.SessionID, Reason: ReasonNoPrompts}, nil
	}

	// The transcript may carry a different id than the hook; check again
	// before writing. The primary key is the last line of defense.
	exists, err := s.SessionExists(meta.SessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &Result{SessionID: meta.SessionID, Reason: ReasonAlreadyIngested}, nil
	}

	if err := s.InsertSession(meta); err != nil {
		return nil, err
	}

	return &Result{
		SessionID:     meta.SessionID,
		Stored:        true,
		Prompts:       len(meta.UserPrompts),
		FilesModified: len(meta.FilesModified),
	}, nil
}

func parse(path string, format Format) (*model.SessionMeta, error) {
	switch format {
	case FormatCopilot:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading transcript: %w", err)
		}
		return transcript.ParseCopilot(data)
	default:
		return transcript.ParseClaude(path)
	}
}
