package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DiscoveredProject is a project directory with a memory database.
type DiscoveredProject struct {
	ProjectDir string
	DBPath     string
}

// DBPath returns the memory database location for a project directory.
func DBPath(projectDir string) string {
	return filepath.Join(projectDir, ".claude", "memory.db")
}

// FindProjectRoot walks up from start looking for a .git directory, falling
// back to start itself when none is found.
func FindProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// DetectProjectDir resolves the current project directory. The
// CLAUDE_MEMORY_PROJECT environment variable wins when set and must name a
// directory; otherwise the working directory's project root is used.
func DetectProjectDir() (string, error) {
	if project := os.Getenv("CLAUDE_MEMORY_PROJECT"); project != "" {
		info, err := os.Stat(project)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("CLAUDE_MEMORY_PROJECT is not a directory: %s", project)
		}
		return project, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return FindProjectRoot(cwd), nil
}

// DiscoverProjectStores scans for memory databases under the home
// directory, at depth one ($HOME/<project>) and depth two
// ($HOME/<dir>/<project>), sorted by project path.
func DiscoverProjectStores() ([]DiscoveredProject, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home dir: %w", err)
	}

	var projects []DiscoveredProject
	for _, pattern := range []string{
		filepath.Join(home, "*", ".claude", "memory.db"),
		filepath.Join(home, "*", "*", ".claude", "memory.db"),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, db := range matches {
			info, err := os.Stat(db)
			if err != nil || info.IsDir() {
				continue
			}
			projects = append(projects, DiscoveredProject{
				ProjectDir: filepath.Dir(filepath.Dir(db)),
				DBPath:     db,
			})
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ProjectDir < projects[j].ProjectDir
	})
	return projects, nil
}
