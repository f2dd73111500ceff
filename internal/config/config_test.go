package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Hook.SkipEmpty {
		t.Error("Hook.SkipEmpty default = false, want true")
	}
	if cfg.Hook.TimeoutSecs != 10 {
		t.Errorf("Hook.TimeoutSecs = %d, want 10", cfg.Hook.TimeoutSecs)
	}
	if cfg.Search.DefaultLimit != 5 || cfg.Search.ListLimit != 10 {
		t.Errorf("search limits = %d/%d, want 5/10", cfg.Search.DefaultLimit, cfg.Search.ListLimit)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Search.DefaultLimit = 12
	cfg.General.ClaudeDir = "/custom/.claude"

	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists() {
		t.Error("Exists = false after save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Search.DefaultLimit != 12 {
		t.Errorf("DefaultLimit = %d, want 12", loaded.Search.DefaultLimit)
	}
	if ClaudeDir(loaded) != "/custom/.claude" {
		t.Errorf("ClaudeDir = %q", ClaudeDir(loaded))
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "claude-memory")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("expected parse error")
	}
	// Defaults still usable so callers can proceed
	if cfg.Search.DefaultLimit != 5 {
		t.Errorf("DefaultLimit = %d, want default 5", cfg.Search.DefaultLimit)
	}
}
