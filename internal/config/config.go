package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all claude-memory configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Hook    HookConfig    `toml:"hook"`
	Search  SearchConfig  `toml:"search"`
	Browse  BrowseConfig  `toml:"browse"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ClaudeDir string `toml:"claude_dir,omitempty"`
}

// HookConfig controls SessionEnd hook behavior.
type HookConfig struct {
	SkipEmpty   bool `toml:"skip_empty"`
	TimeoutSecs int  `toml:"timeout_secs"`
}

// SearchConfig holds default result limits.
type SearchConfig struct {
	DefaultLimit int `toml:"default_limit"`
	ListLimit    int `toml:"list_limit"`
}

// BrowseConfig holds browse TUI settings.
type BrowseConfig struct {
	SessionLimit int `toml:"session_limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Hook: HookConfig{
			SkipEmpty:   true,
			TimeoutSecs: 10,
		},
		Search: SearchConfig{
			DefaultLimit: 5,
			ListLimit:    10,
		},
		Browse: BrowseConfig{
			SessionLimit: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "claude-memory")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "claude-memory")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ClaudeDir returns the Claude Code home directory, honoring the config
// override.
func ClaudeDir(cfg Config) string {
	if cfg.General.ClaudeDir != "" {
		return cfg.General.ClaudeDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
