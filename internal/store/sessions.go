package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

const sessionCols = `id, project_dir, git_branch, started_at, ended_at,
	duration_seconds, model, user_prompts, files_modified, files_read,
	commands_run, git_commits, tools_used, input_tokens, output_tokens, summary`

// InsertSession stores parsed session metadata as a new row. A duplicate id
// fails on the primary key; callers are expected to check SessionExists
// first.
func (s *Store) InsertSession(meta *model.SessionMeta) error {
	startedAt := meta.FirstTimestamp
	if startedAt == "" {
		startedAt = "unknown"
	}

	_, err := s.db.Exec(`INSERT INTO sessions
		(id, project_dir, git_branch, started_at, ended_at, duration_seconds,
		 model, user_prompts, files_modified, files_read, commands_run,
		 git_commits, tools_used, input_tokens, output_tokens, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.SessionID,
		meta.ProjectDir,
		nullIfEmpty(meta.GitBranch),
		startedAt,
		nullIfEmpty(meta.LastTimestamp),
		nullableInt(meta.DurationSeconds),
		nullIfEmpty(meta.Model),
		jsonStrings(meta.UserPrompts),
		jsonStrings(meta.ModifiedFiles()),
		jsonStrings(meta.ReadFiles()),
		jsonStrings(meta.CommandsRun),
		jsonStrings(meta.GitCommits),
		jsonCounts(meta.ToolCounts),
		meta.InputTokens,
		meta.OutputTokens,
		nullIfEmpty(meta.Summary),
	)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", meta.SessionID, err)
	}
	return nil
}

// SessionExists reports whether a session id is already stored.
func (s *Store) SessionExists(sessionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT COUNT(*) > 0 FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	return exists, err
}

// SearchSessions runs a two-pass full-text search. The strict pass requires
// every term; when it finds nothing, eligible queries retry with all terms
// OR-joined. The returned flag is true when results came from the fallback
// pass.
func (s *Store) SearchSessions(query string, limit int) ([]model.Session, bool, error) {
	sanitized := SanitizeQuery(query)

	rows, err := s.ftsMatch(sanitized, limit)
	if err != nil {
		return nil, false, err
	}
	if len(rows) > 0 {
		return rows, false, nil
	}

	if orQuery, ok := BuildOrFallback(sanitized); ok {
		fallback, err := s.ftsMatch(orQuery, limit)
		if err != nil {
			return nil, false, err
		}
		if len(fallback) > 0 {
			return fallback, true, nil
		}
	}

	return nil, false, nil
}

func (s *Store) ftsMatch(matchExpr string, limit int) ([]model.Session, error) {
	rows, err := s.db.Query(`SELECT s.id, s.project_dir, s.git_branch, s.started_at, s.ended_at,
		s.duration_seconds, s.model, s.user_prompts, s.files_modified, s.files_read,
		s.commands_run, s.git_commits, s.tools_used, s.input_tokens, s.output_tokens, s.summary
		FROM sessions_fts
		JOIN sessions s ON sessions_fts.rowid = s.rowid
		WHERE sessions_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, matchExpr, limit)
	if err != nil {
		return nil, fmt.Errorf("searching sessions: %w", err)
	}
	return scanSessions(rows)
}

// ListSessions returns sessions newest first, optionally bounded by
// inclusive started_at timestamps. Empty bounds are ignored.
func (s *Store) ListSessions(limit int, dateFrom, dateTo string) ([]model.Session, error) {
	query := "SELECT " + sessionCols + " FROM sessions WHERE 1=1"
	args := []any{}

	if dateFrom != "" {
		query += " AND started_at >= ?"
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		query += " AND started_at <= ?"
		args = append(args, dateTo)
	}

	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return scanSessions(rows)
}

// GetSession returns the session with the given id, or nil when it is not
// stored.
func (s *Store) GetSession(sessionID string) (*model.Session, error) {
	rows, err := s.db.Query("SELECT "+sessionCols+" FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", sessionID, err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// ProjectSummary computes a cheap per-store rollup. Aggregates that fail on
// sparse or legacy stores degrade to zero values rather than failing the
// whole summary, since discovery walks stores of unknown vintage.
func (s *Store) ProjectSummary() (*model.ProjectSummary, error) {
	summary := &model.ProjectSummary{}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&summary.SessionCount); err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&summary.NoteCount); err != nil {
		return nil, fmt.Errorf("counting notes: %w", err)
	}

	var first, last sql.NullString
	if err := s.db.QueryRow("SELECT MIN(started_at), MAX(started_at) FROM sessions").Scan(&first, &last); err == nil {
		summary.FirstSession = first.String
		summary.LastSession = last.String
	}

	var branch sql.NullString
	if err := s.db.QueryRow("SELECT git_branch FROM sessions ORDER BY started_at DESC LIMIT 1").Scan(&branch); err == nil {
		summary.LastBranch = branch.String
	}

	return summary, nil
}

// Stats holds store-wide aggregate counters.
type Stats struct {
	Sessions     int64
	InputTokens  int64
	OutputTokens int64
}

// Stats returns store-wide session and token totals.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&st.Sessions); err != nil {
		return st, err
	}
	if err := s.db.QueryRow("SELECT COALESCE(SUM(input_tokens), 0) FROM sessions").Scan(&st.InputTokens); err != nil {
		return st, err
	}
	if err := s.db.QueryRow("SELECT COALESCE(SUM(output_tokens), 0) FROM sessions").Scan(&st.OutputTokens); err != nil {
		return st, err
	}
	return st, nil
}

func scanSessions(rows *sql.Rows) ([]model.Session, error) {
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		var branch, endedAt, modelName, summary sql.NullString
		var duration sql.NullInt64

		err := rows.Scan(
			&sess.ID, &sess.ProjectDir, &branch, &sess.StartedAt, &endedAt,
			&duration, &modelName, &sess.UserPrompts, &sess.FilesModified, &sess.FilesRead,
			&sess.CommandsRun, &sess.GitCommits, &sess.ToolsUsed,
			&sess.InputTokens, &sess.OutputTokens, &summary,
		)
		if err != nil {
			return nil, err
		}

		sess.GitBranch = branch.String
		sess.EndedAt = endedAt.String
		sess.Model = modelName.String
		sess.Summary = summary.String
		if duration.Valid {
			d := duration.Int64
			sess.DurationSeconds = &d
		}

		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func jsonStrings(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func jsonCounts(counts map[string]int) string {
	if counts == nil {
		counts = map[string]int{}
	}
	b, _ := json.Marshal(counts)
	return string(b)
}
