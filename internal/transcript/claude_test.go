package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTranscript creates a temp JSONL file from the given lines.
func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseClaude_UserPrompt(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","sessionId":"test-123","cwd":"/home/test","gitBranch":"main","message":{"role":"user","content":"Hello, let's fix the bug"},"timestamp":"2026-02-21T10:00:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.SessionID != "test-123" {
		t.Errorf("SessionID = %q, want test-123", meta.SessionID)
	}
	if meta.ProjectDir != "/home/test" {
		t.Errorf("ProjectDir = %q, want /home/test", meta.ProjectDir)
	}
	if meta.GitBranch != "main" {
		t.Errorf("GitBranch = %q, want main", meta.GitBranch)
	}
	if len(meta.UserPrompts) != 1 || meta.UserPrompts[0] != "Hello, let's fix the bug" {
		t.Errorf("UserPrompts = %v, want the single prompt", meta.UserPrompts)
	}
}

func TestParseClaude_FirstIdentityWins(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","sessionId":"","cwd":"","message":{"content":"first"},"timestamp":"2026-02-21T10:00:00Z"}`,
		`{"type":"user","sessionId":"real-id","cwd":"/home/proj","gitBranch":"feature","message":{"content":"second"},"timestamp":"2026-02-21T10:01:00Z"}`,
		`{"type":"user","sessionId":"other-id","cwd":"/elsewhere","gitBranch":"main","message":{"content":"third"},"timestamp":"2026-02-21T10:02:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.SessionID != "real-id" {
		t.Errorf("SessionID = %q, want real-id (first non-empty)", meta.SessionID)
	}
	if meta.ProjectDir != "/home/proj" {
		t.Errorf("ProjectDir = %q, want /home/proj", meta.ProjectDir)
	}
	if meta.GitBranch != "feature" {
		t.Errorf("GitBranch = %q, want feature", meta.GitBranch)
	}
}

func TestParseClaude_ToolUse(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","sessionId":"test-123","cwd":"/home/test","message":{"model":"claude-opus-4","role":"assistant","content":[{"type":"tool_use","name":"Write","input":{"file_path":"/home/test/foo.go"}},{"type":"tool_use","name":"Read","input":{"file_path":"/home/test/bar.go"}},{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}}],"usage":{"input_tokens":100,"output_tokens":50}},"timestamp":"2026-02-21T10:01:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Model != "claude-opus-4" {
		t.Errorf("Model = %q, want claude-opus-4", meta.Model)
	}
	if _, ok := meta.FilesModified["/home/test/foo.go"]; !ok {
		t.Error("foo.go missing from FilesModified")
	}
	if _, ok := meta.FilesRead["/home/test/bar.go"]; !ok {
		t.Error("bar.go missing from FilesRead")
	}
	if len(meta.CommandsRun) != 1 || meta.CommandsRun[0] != "go test ./..." {
		t.Errorf("CommandsRun = %v", meta.CommandsRun)
	}
	if meta.InputTokens != 100 || meta.OutputTokens != 50 {
		t.Errorf("tokens = %d/%d, want 100/50", meta.InputTokens, meta.OutputTokens)
	}
	if meta.ToolCounts["Write"] != 1 || meta.ToolCounts["Read"] != 1 || meta.ToolCounts["Bash"] != 1 {
		t.Errorf("ToolCounts = %v", meta.ToolCounts)
	}
}

func TestParseClaude_CacheTokensFoldIntoInput(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"model":"claude-opus-4","content":[],"usage":{"input_tokens":100,"output_tokens":50,"cache_creation_input_tokens":200,"cache_read_input_tokens":300}},"timestamp":"2026-02-21T10:00:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.InputTokens != 600 {
		t.Errorf("InputTokens = %d, want 600 (100+200+300)", meta.InputTokens)
	}
	if meta.OutputTokens != 50 {
		t.Errorf("OutputTokens = %d, want 50", meta.OutputTokens)
	}
}

func TestParseClaude_SkipsMetaMessages(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","sessionId":"test-123","cwd":"/home/test","message":{"role":"user","content":"<local-command-caveat>skip this</local-command-caveat>"},"timestamp":"2026-02-21T10:00:00Z"}`,
		`{"type":"user","message":{"content":[{"type":"tool_result","text":"tool output"},{"type":"text","text":"real question"}]},"timestamp":"2026-02-21T10:01:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.UserPrompts) != 1 || meta.UserPrompts[0] != "real question" {
		t.Errorf("UserPrompts = %v, want only the text block", meta.UserPrompts)
	}
}

func TestParseClaude_CorruptLinesSkipped(t *testing.T) {
	path := writeTranscript(t,
		`not valid json`,
		`{"type":"user","sessionId":"test-123","cwd":"/home/test","message":{"role":"user","content":"valid message"},"timestamp":"2026-02-21T10:00:00Z"}`,
		`{"type":"assistant","broken json`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.UserPrompts) != 1 || meta.UserPrompts[0] != "valid message" {
		t.Errorf("UserPrompts = %v, want [valid message]", meta.UserPrompts)
	}
}

func TestParseClaude_Duration(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","sessionId":"test-123","cwd":"/home/test","message":{"role":"user","content":"start"},"timestamp":"2026-02-21T10:00:00Z"}`,
		`{"type":"user","sessionId":"test-123","cwd":"/home/test","message":{"role":"user","content":"end"},"timestamp":"2026-02-21T10:30:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.DurationSeconds == nil {
		t.Fatal("DurationSeconds not set")
	}
	if *meta.DurationSeconds != 1800 {
		t.Errorf("DurationSeconds = %d, want 1800", *meta.DurationSeconds)
	}
}

func TestParseClaude_UnparsableTimestampLeavesDurationUnset(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"content":"start"},"timestamp":"yesterday"}`,
		`{"type":"user","message":{"content":"end"},"timestamp":"2026-02-21T10:30:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.DurationSeconds != nil {
		t.Errorf("DurationSeconds = %d, want unset", *meta.DurationSeconds)
	}
}

func TestParseClaude_PromptTruncation(t *testing.T) {
	long := strings.Repeat("a", 3000)
	path := writeTranscript(t,
		fmt.Sprintf(`{"type":"user","message":{"content":"%s"},"timestamp":"2026-02-21T10:00:00Z"}`, long),
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.UserPrompts) != 1 {
		t.Fatalf("got %d prompts, want 1", len(meta.UserPrompts))
	}
	if len(meta.UserPrompts[0]) != maxPromptLen+3 {
		t.Errorf("prompt length = %d, want %d", len(meta.UserPrompts[0]), maxPromptLen+3)
	}
	if !strings.HasSuffix(meta.UserPrompts[0], "...") {
		t.Error("truncated prompt missing ellipsis")
	}
}

func TestParseClaude_CommandDedupAndCap(t *testing.T) {
	lines := []string{
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"go build"}},{"type":"tool_use","name":"Bash","input":{"command":"go build"}}]},"timestamp":"2026-02-21T10:00:00Z"}`,
	}
	for i := 0; i < 60; i++ {
		lines = append(lines, fmt.Sprintf(
			`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"echo %d"}}]},"timestamp":"2026-02-21T10:00:01Z"}`, i))
	}
	path := writeTranscript(t, lines...)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.CommandsRun) != maxCommands {
		t.Errorf("CommandsRun length = %d, want %d", len(meta.CommandsRun), maxCommands)
	}
	if meta.CommandsRun[0] != "go build" {
		t.Errorf("first command = %q, want go build", meta.CommandsRun[0])
	}
	// The duplicate must not occupy a second slot
	count := 0
	for _, c := range meta.CommandsRun {
		if c == "go build" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("go build recorded %d times, want 1", count)
	}
	// Tool counts still reflect every invocation
	if meta.ToolCounts["Bash"] != 62 {
		t.Errorf("ToolCounts[Bash] = %d, want 62", meta.ToolCounts["Bash"])
	}
}

func TestParseClaude_Summary(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"summary","summary":"Fixing the ingestion race","leafUuid":"abc"}`,
		`{"type":"user","message":{"content":"hello"},"timestamp":"2026-02-21T10:00:00Z"}`,
	)

	meta, err := ParseClaude(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Summary != "Fixing the ingestion race" {
		t.Errorf("Summary = %q", meta.Summary)
	}
}

func TestParseClaude_MissingFile(t *testing.T) {
	if _, err := ParseClaude(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractCommitMessage(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
		ok   bool
	}{
		{"double quoted", `git commit -m "fix: resolve bug"`, "fix: resolve bug", true},
		{"single quoted", `git commit -m 'add feature'`, "add feature", true},
		{"with flags after", `git commit -m "message" --no-verify`, "message", true},
		{"unquoted remainder", `git commit -m wip`, "wip", true},
		{"heredoc fallback", `git commit -m "$(cat <<'EOF'`, "", false},
		{"no -m flag", `git commit --amend`, "", false},
		{"empty after flag", `git commit -m `, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCommitMessage(tt.cmd)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractCommitMessage(%q) = (%q, %v), want (%q, %v)", tt.cmd, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// FuzzExtractCommitMessage checks the quote scan never panics on arbitrary
// command strings from untrusted transcripts.
func FuzzExtractCommitMessage(f *testing.F) {
	f.Add(`git commit -m "fix: resolve bug"`)
	f.Add(`git commit -m 'single'`)
	f.Add(`git commit -m `)
	f.Add(`git commit -m "unterminated`)
	f.Add(`-m `)
	f.Add(``)
	f.Add(`git commit -m "日本語のメッセージ"`)

	f.Fuzz(func(t *testing.T, cmd string) {
		msg, ok := ExtractCommitMessage(cmd)
		if !ok && msg != "" {
			t.Errorf("not-ok result carries message %q", msg)
		}
	})
}
