package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"
)

func testSessionMeta(id string, prompts ...string) *model.SessionMeta {
	meta := model.NewSessionMeta()
	meta.SessionID = id
	meta.ProjectDir = "/home/user/proj"
	meta.GitBranch = "main"
	meta.FirstTimestamp = "2026-02-21T10:00:00Z"
	meta.LastTimestamp = "2026-02-21T10:30:00Z"
	meta.UserPrompts = append(meta.UserPrompts, prompts...)
	meta.ComputeDuration()
	return meta
}

// newTestHandlers seeds a store in a temp dir and returns handlers bound to
// it.
func newTestHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "memory.db")

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	meta := testSessionMeta("mcp-sess-1", "implemented authentication flow")
	if err := s.InsertSession(meta); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	return NewHandlers(func() (string, error) { return dbPath, nil }), dbPath
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var parts []string
	for _, c := range result.Content {
		switch v := c.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestRecall(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.Recall(context.Background(), callRequest(map[string]interface{}{
		"query": "authentication",
	}))
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if result.IsError {
		t.Fatalf("error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, `# Found 1 session(s) matching: "authentication"`) {
		t.Errorf("header missing:\n%s", text)
	}
	if !strings.Contains(text, "**Session:** `mcp-sess-1`") {
		t.Errorf("session block missing:\n%s", text)
	}
}

func TestRecall_FallbackHeader(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.Recall(context.Background(), callRequest(map[string]interface{}{
		"query": "authentication database",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "partial matches for") {
		t.Errorf("fallback annotation missing:\n%s", text)
	}
}

func TestRecall_NoMatches(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.Recall(context.Background(), callRequest(map[string]interface{}{
		"query": "kubernetes",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != `No sessions found matching: "kubernetes"` {
		t.Errorf("text = %q", got)
	}
}

func TestRecall_MissingQuery(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.Recall(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error result for missing query")
	}
}

func TestListSessions(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.ListSessions(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "# 1 Recent Session(s)") {
		t.Errorf("header missing:\n%s", text)
	}
}

func TestListSessions_DateFilterExcludes(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.ListSessions(context.Background(), callRequest(map[string]interface{}{
		"date_from": "2030-01-01",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != "No sessions found." {
		t.Errorf("text = %q", got)
	}
}

func TestGetSession(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.GetSession(context.Background(), callRequest(map[string]interface{}{
		"session_id": "mcp-sess-1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("error result: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "**Tokens:**") {
		t.Errorf("detail sections missing:\n%s", text)
	}
}

func TestGetSession_Missing(t *testing.T) {
	h, dbPath := newTestHandlers(t)

	result, err := h.GetSession(context.Background(), callRequest(map[string]interface{}{
		"session_id": "no-such-session",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error result for unknown session")
	}
	if got := resultText(t, result); got != "Session not found: no-such-session" {
		t.Errorf("text = %q", got)
	}

	// The failed lookup must not write anything
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	st, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", st.Sessions)
	}
}

func TestLogNoteAndSearchNotes(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.LogNote(context.Background(), callRequest(map[string]interface{}{
		"content": "switched the scheduler to a min-heap",
		"tags":    []string{"decision", "performance"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Note saved [decision, performance] (id: ") {
		t.Errorf("confirmation = %q", text)
	}

	result, err = h.SearchNotes(context.Background(), callRequest(map[string]interface{}{
		"query": "scheduler",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text = resultText(t, result)
	if !strings.Contains(text, "# 1 Note(s)") || !strings.Contains(text, "[decision, performance]") {
		t.Errorf("search output:\n%s", text)
	}
	if !strings.Contains(text, "switched the scheduler to a min-heap") {
		t.Errorf("note content missing:\n%s", text)
	}
}

func TestSearchNotes_Empty(t *testing.T) {
	h, _ := newTestHandlers(t)

	result, err := h.SearchNotes(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, result); got != "No notes found." {
		t.Errorf("text = %q", got)
	}
}

func TestListProjects(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	mkProject := func(name string, sessions ...string) string {
		t.Helper()
		project := filepath.Join(home, name)
		if err := os.MkdirAll(project, 0o750); err != nil {
			t.Fatal(err)
		}
		s, err := store.Open(config.DBPath(project))
		if err != nil {
			t.Fatal(err)
		}
		for i, prompt := range sessions {
			if err := s.InsertSession(testSessionMeta(name+"-"+string(rune('a'+i)), prompt)); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
		return project
	}

	current := mkProject("alpha", "current work")
	mkProject("beta", "other work", "more work")
	t.Setenv("CLAUDE_MEMORY_PROJECT", current)

	h := NewHandlers(func() (string, error) { return config.DBPath(current), nil })
	result, err := h.ListProjects(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)

	if !strings.Contains(text, "# 2 Project(s) with Memory") {
		t.Errorf("header missing:\n%s", text)
	}
	if !strings.Contains(text, "| alpha **(current)** | 1 |") {
		t.Errorf("current marker missing:\n%s", text)
	}
	if !strings.Contains(text, "| beta | 2 |") {
		t.Errorf("beta row missing:\n%s", text)
	}
	if !strings.Contains(text, "_Total: 3 sessions, 0 notes across 2 projects_") {
		t.Errorf("totals missing:\n%s", text)
	}
	// Current project sorts first
	if strings.Index(text, "alpha") > strings.Index(text, "beta") {
		t.Errorf("current project not listed first:\n%s", text)
	}
}
