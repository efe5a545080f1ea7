package crontab

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// AppName names the per-user directory holding the default crontab.
const AppName = "minicron"

// Resolver supplies the crontab path.
type Resolver interface {
	Path() (string, error)
}

// PathResolver resolves a fixed path, or the per-user default when empty,
// and makes sure the file exists (creating its directory and an empty file).
type PathResolver struct {
	Override string
}

func (r PathResolver) Path() (string, error) {
	path := strings.TrimSpace(r.Override)
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	if err := ensureFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// DefaultPath is $HOME/.config/minicron/crontab, or
// %LOCALAPPDATA%\minicron\crontab on Windows.
func DefaultPath() (string, error) {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			return "", errors.New("LOCALAPPDATA is not set")
		}
		return filepath.Join(base, AppName, "crontab"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "crontab"), nil
}

func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create crontab dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create crontab: %w", err)
	}
	return f.Close()
}

// FileSource loads entries from the file its Resolver points at.
type FileSource struct {
	Resolver Resolver
}

// Load reads and parses the whole file.
func (s FileSource) Load() ([]*Entry, error) {
	path, err := s.Resolver.Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
