package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the optional config.toml schema.
type Config struct {
	Language    string   `toml:"language"`
	TUI         bool     `toml:"tui"`
	ImageOpener []string `toml:"image_opener"`
	TextEditor  []string `toml:"text_editor"`
	LogFile     string   `toml:"log_file"`
	Source      string   `toml:"-"`
}

func Default() Config {
	return Config{}
}

// DefaultPath returns <user config dir>/findopen/config.toml, or "" when the
// config dir cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "findopen", "config.toml")
}

// Load reads path (DefaultPath when empty) and applies env overrides.
// A missing file yields the defaults.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(content, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.Source = path
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if env := strings.TrimSpace(getenv("FINDOPEN_LANG")); env != "" {
		cfg.Language = env
	}
	if env := strings.TrimSpace(getenv("FINDOPEN_TUI")); env != "" {
		tui, err := strconv.ParseBool(env)
		if err != nil {
			return cfg, fmt.Errorf("FINDOPEN_TUI: %w", err)
		}
		cfg.TUI = tui
	}
	return cfg, nil
}
