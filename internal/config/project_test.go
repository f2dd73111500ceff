package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o750); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "internal", "store")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	if got := FindProjectRoot(nested); got != root {
		t.Errorf("FindProjectRoot(%q) = %q, want %q", nested, got, root)
	}
	if got := FindProjectRoot(root); got != root {
		t.Errorf("FindProjectRoot at root = %q, want %q", got, root)
	}
}

func TestFindProjectRoot_NoGit(t *testing.T) {
	dir := t.TempDir()
	if got := FindProjectRoot(dir); got != dir {
		t.Errorf("FindProjectRoot(%q) = %q, want fallback to start", dir, got)
	}
}

func TestDetectProjectDir_EnvOverride(t *testing.T) {
	project := t.TempDir()
	t.Setenv("CLAUDE_MEMORY_PROJECT", project)

	got, err := DetectProjectDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != project {
		t.Errorf("DetectProjectDir = %q, want %q", got, project)
	}
}

func TestDetectProjectDir_EnvNotADir(t *testing.T) {
	t.Setenv("CLAUDE_MEMORY_PROJECT", filepath.Join(t.TempDir(), "missing"))

	if _, err := DetectProjectDir(); err == nil {
		t.Error("expected error for nonexistent override")
	}
}

func TestDBPath(t *testing.T) {
	want := filepath.Join("/home/user/proj", ".claude", "memory.db")
	if got := DBPath("/home/user/proj"); got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
}

func TestDiscoverProjectStores(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	mkdb := func(rel string) {
		t.Helper()
		path := filepath.Join(home, rel, ".claude", "memory.db")
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte{}, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	mkdb("alpha")
	mkdb(filepath.Join("code", "beta"))
	// Depth 3 is out of range
	mkdb(filepath.Join("a", "b", "gamma"))

	projects, err := DiscoverProjectStores()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2: %+v", len(projects), projects)
	}
	if projects[0].ProjectDir != filepath.Join(home, "alpha") {
		t.Errorf("first project = %q", projects[0].ProjectDir)
	}
	if projects[1].ProjectDir != filepath.Join(home, "code", "beta") {
		t.Errorf("second project = %q", projects[1].ProjectDir)
	}
	if projects[1].DBPath != filepath.Join(home, "code", "beta", ".claude", "memory.db") {
		t.Errorf("db path = %q", projects[1].DBPath)
	}
}
