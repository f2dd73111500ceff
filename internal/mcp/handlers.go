package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"
)

// Handlers implements the six memory tools. resolveDB yields the current
// project's database path; each handler opens the store for the duration of
// one call so concurrent hook writes never contend with a held connection.
type Handlers struct {
	resolveDB func() (string, error)
}

// NewHandlers wires tool handlers to a database path resolver.
func NewHandlers(resolveDB func() (string, error)) *Handlers {
	return &Handlers{resolveDB: resolveDB}
}

func (h *Handlers) openStore() (*store.Store, error) {
	path, err := h.resolveDB()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

// Recall handles the recall tool: two-pass full-text search over sessions.
func (h *Handlers) Recall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: query"), nil
	}
	limit := clampLimit(request.GetInt("limit", 5), 20)

	s, err := h.openStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = s.Close() }()

	results, isFallback, err := s.SearchSessions(query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No sessions found matching: \"%s\"", query)), nil
	}

	var out strings.Builder
	if isFallback {
		fmt.Fprintf(&out, "# Found %d session(s) with partial matches for: \"%s\"\n", len(results), query)
		out.WriteString("_(No exact match — showing sessions matching some of these terms)_\n\n")
	} else {
		fmt.Fprintf(&out, "# Found %d session(s) matching: \"%s\"\n\n", len(results), query)
	}
	for i := range results {
		out.WriteString(formatSessionSummary(&results[i]))
		out.WriteString("\n")
	}

	return mcp.NewToolResultText(out.String()), nil
}

// ListSessions handles the list_sessions tool.
func (h *Handlers) ListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := clampLimit(request.GetInt("limit", 10), 50)
	dateFrom := request.GetString("date_from", "")
	dateTo := request.GetString("date_to", "")

	s, err := h.openStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = s.Close() }()

	results, err := s.ListSessions(limit, dateFrom, dateTo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No sessions found."), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# %d Recent Session(s)\n\n", len(results))
	for i := range results {
		out.WriteString(formatSessionSummary(&results[i]))
		out.WriteString("\n")
	}

	return mcp.NewToolResultText(out.String()), nil
}

// GetSession handles the get_session tool.
func (h *Handlers) GetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: session_id"), nil
	}

	s, err := h.openStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = s.Close() }()

	session, err := s.GetSession(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if session == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session not found: %s", sessionID)), nil
	}

	return mcp.NewToolResultText(formatSessionDetail(session)), nil
}

// LogNote handles the log_note tool.
func (h *Handlers) LogNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: content"), nil
	}
	tags := request.GetStringSlice("tags", nil)

	s, err := h.openStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = s.Close() }()

	id, err := s.InsertNote(content, tags, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tagDisplay := ""
	if len(tags) > 0 {
		tagDisplay = fmt.Sprintf(" [%s]", strings.Join(tags, ", "))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note saved%s (id: %s)", tagDisplay, id[:8])), nil
}

// SearchNotes handles the search_notes tool.
func (h *Handlers) SearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	tag := request.GetString("tag", "")
	limit := clampLimit(request.GetInt("limit", 10), 50)

	s, err := h.openStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = s.Close() }()

	results, err := s.SearchNotes(query, tag, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# %d Note(s)\n\n", len(results))
	for _, note := range results {
		tagDisplay := ""
		if tags := note.TagList(); len(tags) > 0 {
			tagDisplay = fmt.Sprintf(" [%s]", strings.Join(tags, ", "))
		}
		fmt.Fprintf(&out, "## %s%s\n", note.CreatedDate(), tagDisplay)
		out.WriteString(note.Content)
		out.WriteString("\n\n")
	}

	return mcp.NewToolResultText(out.String()), nil
}

// ListProjects handles the list_projects tool. Every discovered store is
// opened read-only; stores that fail to open or summarize are skipped so a
// single corrupt database cannot hide the rest.
func (h *Handlers) ListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := clampLimit(request.GetInt("limit", 20), 50)

	currentProject, _ := config.DetectProjectDir()
	projects, err := config.DiscoverProjectStores()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects with memory databases found."), nil
	}

	type projectEntry struct {
		name      string
		isCurrent bool
		summary   *model.ProjectSummary
	}

	var entries []projectEntry
	for _, project := range projects {
		ro, err := store.OpenReadOnly(project.DBPath)
		if err != nil {
			continue
		}
		summary, err := ro.ProjectSummary()
		_ = ro.Close()
		if err != nil {
			continue
		}

		entries = append(entries, projectEntry{
			name:      filepath.Base(project.ProjectDir),
			isCurrent: project.ProjectDir == currentProject,
			summary:   summary,
		})
	}

	// Current project first, then most recently active
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isCurrent != entries[j].isCurrent {
			return entries[i].isCurrent
		}
		return entries[i].summary.LastSession > entries[j].summary.LastSession
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# %d Project(s) with Memory\n\n", len(entries))
	out.WriteString("| Project | Sessions | Notes | Last Active | Branch |\n")
	out.WriteString("|---------|----------|-------|-------------|--------|\n")

	var totalSessions, totalNotes int64
	for _, entry := range entries {
		marker := ""
		if entry.isCurrent {
			marker = " **(current)**"
		}
		lastActive := "-"
		if d := entry.summary.LastSession; d != "" {
			if len(d) > 10 {
				d = d[:10]
			}
			lastActive = d
		}
		branch := entry.summary.LastBranch
		if branch == "" {
			branch = "-"
		}
		fmt.Fprintf(&out, "| %s%s | %d | %d | %s | %s |\n",
			entry.name, marker, entry.summary.SessionCount, entry.summary.NoteCount, lastActive, branch)
		totalSessions += entry.summary.SessionCount
		totalNotes += entry.summary.NoteCount
	}

	fmt.Fprintf(&out, "\n_Total: %d sessions, %d notes across %d projects_\n",
		totalSessions, totalNotes, len(entries))

	return mcp.NewToolResultText(out.String()), nil
}

// clampLimit caps a caller-supplied limit, falling back to max when the
// caller asks for more.
func clampLimit(v, max int) int {
	if v > max {
		return max
	}
	if v < 1 {
		return 1
	}
	return v
}
