package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// targetSchemaVersion is the version a successful Open leaves the store at.
const targetSchemaVersion = 1

// baseSchemaSQL creates the durable tables. It never touches the FTS shadow
// tables; those belong to the migrations so that older stores get rebuilt
// instead of silently kept on a stale index layout.
const baseSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id               TEXT PRIMARY KEY,
    project_dir      TEXT NOT NULL,
    git_branch       TEXT,
    started_at       TEXT NOT NULL,
    ended_at         TEXT,
    duration_seconds INTEGER,
    model            TEXT,
    user_prompts     TEXT NOT NULL DEFAULT '[]',
    files_modified   TEXT NOT NULL DEFAULT '[]',
    files_read       TEXT NOT NULL DEFAULT '[]',
    commands_run     TEXT NOT NULL DEFAULT '[]',
    git_commits      TEXT NOT NULL DEFAULT '[]',
    tools_used       TEXT NOT NULL DEFAULT '{}',
    input_tokens     INTEGER DEFAULT 0,
    output_tokens    INTEGER DEFAULT 0,
    summary          TEXT,
    ingested_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS notes (
    id         TEXT PRIMARY KEY,
    session_id TEXT,
    content    TEXT NOT NULL,
    tags       TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (session_id) REFERENCES sessions(id)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
CREATE INDEX IF NOT EXISTS idx_sessions_project_dir ON sessions(project_dir);
CREATE INDEX IF NOT EXISTS idx_notes_session_id ON notes(session_id);
CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);
`

// Migration 1 rebuilds the FTS layout with porter-stemmed indexes and adds
// files_read to the session index. Dropping first makes the step
// re-entrant and also upgrades stores created before versioning existed.
// The final rebuild backfills rows that predate the triggers.
const migration1SQL = `
DROP TRIGGER IF EXISTS sessions_ai;
DROP TRIGGER IF EXISTS sessions_ad;
DROP TRIGGER IF EXISTS sessions_au;
DROP TRIGGER IF EXISTS notes_ai;
DROP TRIGGER IF EXISTS notes_ad;
DROP TRIGGER IF EXISTS notes_au;
DROP TABLE IF EXISTS sessions_fts;
DROP TABLE IF EXISTS notes_fts;

CREATE VIRTUAL TABLE sessions_fts USING fts5(
    user_prompts, files_modified, files_read, commands_run, git_commits, summary,
    content=sessions, content_rowid=rowid,
    tokenize='porter unicode61'
);

CREATE TRIGGER sessions_ai AFTER INSERT ON sessions BEGIN
    INSERT INTO sessions_fts(rowid, user_prompts, files_modified, files_read, commands_run, git_commits, summary)
    VALUES (new.rowid, new.user_prompts, new.files_modified, new.files_read, new.commands_run, new.git_commits, new.summary);
END;

CREATE TRIGGER sessions_ad AFTER DELETE ON sessions BEGIN
    INSERT INTO sessions_fts(sessions_fts, rowid, user_prompts, files_modified, files_read, commands_run, git_commits, summary)
    VALUES ('delete', old.rowid, old.user_prompts, old.files_modified, old.files_read, old.commands_run, old.git_commits, old.summary);
END;

CREATE TRIGGER sessions_au AFTER UPDATE ON sessions BEGIN
    INSERT INTO sessions_fts(sessions_fts, rowid, user_prompts, files_modified, files_read, commands_run, git_commits, summary)
    VALUES ('delete', old.rowid, old.user_prompts, old.files_modified, old.files_read, old.commands_run, old.git_commits, old.summary);
    INSERT INTO sessions_fts(rowid, user_prompts, files_modified, files_read, commands_run, git_commits, summary)
    VALUES (new.rowid, new.user_prompts, new.files_modified, new.files_read, new.commands_run, new.git_commits, new.summary);
END;

CREATE VIRTUAL TABLE notes_fts USING fts5(
    content, tags,
    content=notes, content_rowid=rowid,
    tokenize='porter unicode61'
);

CREATE TRIGGER notes_ai AFTER INSERT ON notes BEGIN
    INSERT INTO notes_fts(rowid, content, tags)
    VALUES (new.rowid, new.content, new.tags);
END;

CREATE TRIGGER notes_ad AFTER DELETE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, content, tags)
    VALUES ('delete', old.rowid, old.content, old.tags);
END;

CREATE TRIGGER notes_au AFTER UPDATE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, content, tags)
    VALUES ('delete', old.rowid, old.content, old.tags);
    INSERT INTO notes_fts(rowid, content, tags)
    VALUES (new.rowid, new.content, new.tags);
END;

INSERT INTO sessions_fts(sessions_fts) VALUES ('rebuild');
INSERT INTO notes_fts(notes_fts) VALUES ('rebuild');
`

// migrations[i] moves a store from version i to version i+1.
var migrations = []string{migration1SQL}

// migrate creates the base tables if absent and applies any pending
// migration steps inside one transaction, then records the new version.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchemaSQL); err != nil {
		return fmt.Errorf("creating base schema: %w", err)
	}

	version, err := currentVersion(db)
	if err != nil {
		return err
	}
	if version >= targetSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for v := version; v < targetSchemaVersion; v++ {
		if _, err := tx.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", targetSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

// currentVersion reads the recorded schema version, 0 when the version table
// is empty.
func currentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}
