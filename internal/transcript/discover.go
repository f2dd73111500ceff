package transcript

import (
	"os"
	"path/filepath"
	"strings"
)

// File is a discovered transcript on disk.
type File struct {
	Path      string
	SessionID string
}

// Discover walks the Claude data directory and returns all main-session
// JSONL transcripts under projects/. Subagent transcripts are excluded;
// they never form standalone memory sessions.
func Discover(claudeDir string) ([]File, error) {
	projectsDir := filepath.Join(claudeDir, "projects")

	info, err := os.Stat(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []File

	err = filepath.WalkDir(projectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			return nil
		}

		rel, _ := filepath.Rel(projectsDir, path)
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != 2 {
			// Deeper nesting means subagent files: <project>/<session>/subagents/...
			return nil
		}

		files = append(files, File{
			Path:      path,
			SessionID: strings.TrimSuffix(name, ".jsonl"),
		})
		return nil
	})

	return files, err
}
