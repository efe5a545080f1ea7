package dispatch

import (
	"time"

	"minicron/internal/crontab"
)

const (
	DefaultLookahead    = 10 * time.Second
	DefaultPollInterval = 10 * time.Second
	DefaultCooldown     = 500 * time.Millisecond
)

// Config controls loop timing.
type Config struct {
	// Lookahead is the time-to-deadline below which the loop arms a batch and
	// sleeps exactly until it.
	Lookahead time.Duration
	// PollInterval caps every other sleep.
	PollInterval time.Duration
	// Cooldown is slept after each dispatch so the same minute boundary is
	// not evaluated twice.
	Cooldown time.Duration
	// Location schedules are evaluated in. Nil means time.Local.
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.Lookahead <= 0 {
		c.Lookahead = DefaultLookahead
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// Source produces the full entry set. An error means the whole set was
// rejected.
type Source interface {
	Load() ([]*crontab.Entry, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]*crontab.Entry, error)

func (f SourceFunc) Load() ([]*crontab.Entry, error) { return f() }

// Executor starts a command without waiting for it to finish.
type Executor interface {
	Launch(command string) error
}

// Spawner owns the goroutines that call the Executor.
type Spawner interface {
	Spawn(name string, fn func())
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(name string, fn func())

func (f SpawnerFunc) Spawn(name string, fn func()) { f(name, fn) }

// Clock is the loop's view of time.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Event payloads published on the bus.

type ReloadedEvent struct {
	Entries int `json:"entries"`
}

type RejectedEvent struct {
	Err string `json:"err"`
}

type EntryEvent struct {
	Line    int    `json:"line"`
	Command string `json:"command"`
	Err     string `json:"err"`
}

type BatchEvent struct {
	At       time.Time `json:"at"`
	Commands []string  `json:"commands"`
}
