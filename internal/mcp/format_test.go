package mcp

import (
	"strings"
	"testing"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

func sampleSession() *model.Session {
	duration := int64(2700)
	return &model.Session{
		ID:              "abc-123",
		ProjectDir:      "/home/user/proj",
		GitBranch:       "feature/search",
		StartedAt:       "2026-02-21T10:00:00Z",
		EndedAt:         "2026-02-21T10:45:00Z",
		DurationSeconds: &duration,
		Model:           "claude-opus-4",
		UserPrompts:     `["add porter stemming to the index","backfill old rows","third prompt"]`,
		FilesModified:   `["/home/user/proj/internal/store/schema.go","/home/user/proj/internal/store/search.go"]`,
		FilesRead:       `["/home/user/proj/docs/notes.md"]`,
		CommandsRun:     `["go test ./..."]`,
		GitCommits:      `["feat: stemmed search"]`,
		ToolsUsed:       `{"Bash":4,"Edit":9,"Read":4}`,
		InputTokens:     1500,
		OutputTokens:    300,
	}
}

func TestFormatSessionSummary(t *testing.T) {
	out := formatSessionSummary(sampleSession())

	for _, want := range []string{
		"## 2026-02-21 | 45m | branch: feature/search\n",
		"**Session:** `abc-123`\n",
		"**Model:** claude-opus-4\n",
		"- add porter stemming to the index\n",
		"- backfill old rows\n",
		"- _(+1 more)_\n",
		"**Files modified:** schema.go, search.go\n",
		"**Commits:**\n- feat: stemmed search\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "third prompt") {
		t.Error("summary shows more than two prompts")
	}
}

func TestFormatSessionSummary_MissingFields(t *testing.T) {
	s := &model.Session{
		ID:          "bare",
		StartedAt:   "unknown",
		UserPrompts: "[]", FilesModified: "[]", FilesRead: "[]",
		CommandsRun: "[]", GitCommits: "[]", ToolsUsed: "{}",
	}
	out := formatSessionSummary(s)

	if !strings.Contains(out, "## unknown | ? | branch: ?\n") {
		t.Errorf("header = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if strings.Contains(out, "**Prompts:**") || strings.Contains(out, "**Model:**") {
		t.Errorf("empty sections rendered:\n%s", out)
	}
}

func TestFormatSessionDetail(t *testing.T) {
	out := formatSessionDetail(sampleSession())

	for _, want := range []string{
		"**Files read (1):**\n- /home/user/proj/docs/notes.md\n",
		"**Commands (1):**\n- `go test ./...`\n",
		"**Tool usage:** Edit:9, Bash:4, Read:4\n",
		"**Tokens:** 1500 input / 300 output\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{45, "45s"},
		{60, "1m"},
		{1800, "30m"},
		{3600, "1h 0m"},
		{5400, "1h 30m"},
		{7260, "2h 1m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 200)
	got := truncate(long, 150)
	if len(got) != 153 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long: len=%d", len(got))
	}
}
