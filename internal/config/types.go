package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"minicron/internal/dispatch"
	logx "minicron/pkg/logx"
)

// Config is the daemon settings file. Every field is optional; omitted
// fields keep the values from Default.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	// Crontab overrides the crontab path. Empty means the per-user default.
	Crontab string `json:"crontab,omitempty"`
	// Timezone is an IANA name ("Europe/Berlin", "UTC"). Empty or "Local"
	// means the host zone.
	Timezone string `json:"timezone,omitempty"`
	// Shell is the argv prefix used to run commands; the command line is
	// appended as the final argument. Empty means sh -c (cmd /c on Windows).
	Shell []string `json:"shell,omitempty"`

	Dispatch DispatchConfig `json:"dispatch"`
	Logging  LoggingConfig  `json:"logging"`
	Systemd  SystemdConfig  `json:"systemd"`
}

// DispatchConfig tunes the dispatch loop. Zero values use the loop defaults
// (lookahead 10s, poll_interval 10s, cooldown 500ms).
type DispatchConfig struct {
	Lookahead    string `json:"lookahead,omitempty"`
	PollInterval string `json:"poll_interval,omitempty"`
	Cooldown     string `json:"cooldown,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SystemdConfig.Notify is a pointer so an omitted key (default on) differs
// from an explicit false.
type SystemdConfig struct {
	Notify *bool `json:"notify,omitempty"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

func (c *Config) NotifyEnabled() bool {
	return c.Systemd.Notify == nil || *c.Systemd.Notify
}

func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// DispatchSettings maps the settings onto the loop configuration.
func (c *Config) DispatchSettings() (dispatch.Config, error) {
	var out dispatch.Config
	var err error
	if out.Lookahead, err = ParseDurationOrDefault("dispatch.lookahead", c.Dispatch.Lookahead, dispatch.DefaultLookahead); err != nil {
		return out, err
	}
	if out.PollInterval, err = ParseDurationOrDefault("dispatch.poll_interval", c.Dispatch.PollInterval, dispatch.DefaultPollInterval); err != nil {
		return out, err
	}
	if out.Cooldown, err = ParseDurationOrDefault("dispatch.cooldown", c.Dispatch.Cooldown, dispatch.DefaultCooldown); err != nil {
		return out, err
	}
	if out.Location, err = c.Location(); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Config) LoggerConfig() logx.Config {
	return logx.Config{
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File:    logx.FileConfig{Enabled: c.Logging.File.Enabled, Path: c.Logging.File.Path},
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if !logx.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if c.Logging.File.Enabled && strings.TrimSpace(c.Logging.File.Path) == "" {
		errs = append(errs, errors.New("logging.file.path: required when logging.file.enabled"))
	}
	if len(c.Shell) > 0 && strings.TrimSpace(c.Shell[0]) == "" {
		errs = append(errs, errors.New("shell: program must not be empty"))
	}
	if _, err := c.DispatchSettings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
