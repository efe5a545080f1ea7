package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"minicron/internal/crontab"
)

// DefaultPath is where the settings file is looked for when no path is
// given. A missing default file is not an error.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, crontab.AppName, "config.yaml"), nil
}

type ConfigManager struct {
	path     string
	optional bool
}

// NewConfigManager reads settings from path. An empty path means
// DefaultPath, which may be absent.
func NewConfigManager(path string) *ConfigManager {
	m := &ConfigManager{path: path}
	if path == "" {
		m.optional = true
		if p, err := DefaultPath(); err == nil {
			m.path = p
		}
	}
	return m
}

// Parse reads, strictly decodes (on top of Default) and validates the
// settings file.
// YAML (.yaml/.yml) and JSON are accepted; unknown keys are rejected.
func (m *ConfigManager) Parse() (*Config, error) {
	cfg := Default()
	if m.path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(m.path)
	if err != nil {
		if m.optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return cfg, nil
	}
	jb, format, err := coerceToJSONBytes(m.path, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %s decode: %w", m.path, format, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("%s: invalid config: trailing data", m.path)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.path, err)
	}
	return cfg, nil
}
