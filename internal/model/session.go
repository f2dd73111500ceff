// Package model defines domain types for claude-memory sessions and notes.
package model

import (
	"encoding/json"
	"sort"
	"time"
)

// SessionMeta holds the metadata distilled from a single agent session
// transcript. Collections accumulate during parsing; JSON encoding of the
// list-valued fields happens at the store boundary.
type SessionMeta struct {
	SessionID  string
	ProjectDir string
	GitBranch  string
	Model      string

	FirstTimestamp  string
	LastTimestamp   string
	DurationSeconds *int64

	UserPrompts   []string
	FilesModified map[string]struct{}
	FilesRead     map[string]struct{}
	CommandsRun   []string
	GitCommits    []string
	ToolCounts    map[string]int

	InputTokens  int64
	OutputTokens int64
	Summary      string
}

// NewSessionMeta returns an empty SessionMeta with collections initialized.
func NewSessionMeta() *SessionMeta {
	return &SessionMeta{
		UserPrompts:   []string{},
		FilesModified: make(map[string]struct{}),
		FilesRead:     make(map[string]struct{}),
		CommandsRun:   []string{},
		GitCommits:    []string{},
		ToolCounts:    make(map[string]int),
	}
}

// ComputeDuration derives DurationSeconds from the first/last timestamps.
// Left unset when either endpoint is missing or unparsable.
func (m *SessionMeta) ComputeDuration() {
	if m.FirstTimestamp == "" || m.LastTimestamp == "" {
		return
	}
	start, err := time.Parse(time.RFC3339Nano, m.FirstTimestamp)
	if err != nil {
		return
	}
	end, err := time.Parse(time.RFC3339Nano, m.LastTimestamp)
	if err != nil {
		return
	}
	secs := int64(end.Sub(start).Seconds())
	m.DurationSeconds = &secs
}

// ModifiedFiles returns the modified-file set as a sorted slice.
func (m *SessionMeta) ModifiedFiles() []string {
	return sortedKeys(m.FilesModified)
}

// ReadFiles returns the read-file set as a sorted slice.
func (m *SessionMeta) ReadFiles() []string {
	return sortedKeys(m.FilesRead)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Session mirrors a row of the sessions table. List-valued columns hold JSON
// text; use the decode helpers when the contents are needed.
type Session struct {
	ID              string
	ProjectDir      string
	GitBranch       string
	StartedAt       string
	EndedAt         string
	DurationSeconds *int64
	Model           string
	UserPrompts     string
	FilesModified   string
	FilesRead       string
	CommandsRun     string
	GitCommits      string
	ToolsUsed       string
	InputTokens     int64
	OutputTokens    int64
	Summary         string
}

// Prompts decodes the user_prompts column. Undecodable JSON yields nil.
func (s *Session) Prompts() []string { return decodeStrings(s.UserPrompts) }

// ModifiedList decodes the files_modified column.
func (s *Session) ModifiedList() []string { return decodeStrings(s.FilesModified) }

// ReadList decodes the files_read column.
func (s *Session) ReadList() []string { return decodeStrings(s.FilesRead) }

// Commands decodes the commands_run column.
func (s *Session) Commands() []string { return decodeStrings(s.CommandsRun) }

// Commits decodes the git_commits column.
func (s *Session) Commits() []string { return decodeStrings(s.GitCommits) }

// Tools decodes the tools_used column into name -> invocation count.
func (s *Session) Tools() map[string]int {
	var out map[string]int
	if err := json.Unmarshal([]byte(s.ToolsUsed), &out); err != nil {
		return nil
	}
	return out
}

// StartedDate returns the date portion (YYYY-MM-DD) of the start timestamp.
func (s *Session) StartedDate() string {
	if len(s.StartedAt) < 10 {
		return s.StartedAt
	}
	return s.StartedAt[:10]
}

func decodeStrings(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// Note mirrors a row of the notes table.
type Note struct {
	ID        string
	SessionID string
	Content   string
	Tags      string
	CreatedAt string
}

// TagList decodes the tags column.
func (n *Note) TagList() []string { return decodeStrings(n.Tags) }

// CreatedDate returns the date portion (YYYY-MM-DD) of the creation timestamp.
func (n *Note) CreatedDate() string {
	if len(n.CreatedAt) < 10 {
		return n.CreatedAt
	}
	return n.CreatedAt[:10]
}

// ProjectSummary is a lightweight per-store rollup used for cross-project
// discovery.
type ProjectSummary struct {
	SessionCount int64
	NoteCount    int64
	FirstSession string
	LastSession  string
	LastBranch   string
}
