package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/christianWissmann85/claude-memory-hook/internal/model"
)

// InsertNote stores a note and returns its generated id. sessionID is
// optional and links the note to a stored session when present.
func (s *Store) InsertNote(content string, tags []string, sessionID string) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(
		"INSERT INTO notes (id, session_id, content, tags) VALUES (?, ?, ?, ?)",
		id, nullIfEmpty(sessionID), content, jsonStrings(tags),
	)
	if err != nil {
		return "", fmt.Errorf("inserting note: %w", err)
	}
	return id, nil
}

// SearchNotes finds notes by full-text query, by tag containment, or, with
// neither filter, returns the most recent notes.
func (s *Store) SearchNotes(query, tag string, limit int) ([]model.Note, error) {
	if query != "" {
		rows, err := s.db.Query(`SELECT n.id, n.session_id, n.content, n.tags, n.created_at
			FROM notes_fts
			JOIN notes n ON notes_fts.rowid = n.rowid
			WHERE notes_fts MATCH ?
			ORDER BY rank
			LIMIT ?`, SanitizeQuery(query), limit)
		if err != nil {
			return nil, fmt.Errorf("searching notes: %w", err)
		}
		return scanNotes(rows)
	}

	if tag != "" {
		pattern := `%"` + tag + `%`
		rows, err := s.db.Query(`SELECT id, session_id, content, tags, created_at
			FROM notes WHERE tags LIKE ?
			ORDER BY created_at DESC LIMIT ?`, pattern, limit)
		if err != nil {
			return nil, fmt.Errorf("filtering notes by tag: %w", err)
		}
		return scanNotes(rows)
	}

	rows, err := s.db.Query(`SELECT id, session_id, content, tags, created_at
		FROM notes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return scanNotes(rows)
}

// NoteCount returns the number of stored notes.
func (s *Store) NoteCount() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

func scanNotes(rows *sql.Rows) ([]model.Note, error) {
	defer func() { _ = rows.Close() }()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		var sessionID sql.NullString
		if err := rows.Scan(&n.ID, &sessionID, &n.Content, &n.Tags, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.SessionID = sessionID.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
