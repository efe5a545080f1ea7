// Package executor launches crontab commands through the host shell.
package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultShell is "sh -c" on Unix and "cmd /c" on Windows.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/c"}
	}
	return []string{"sh", "-c"}
}

// Shell starts each command as the last argument of a shell argv prefix.
// Children inherit the daemon's stdout/stderr; their exit status is reaped
// and discarded.
type Shell struct {
	argv []string
	dir  string
}

type Option func(*Shell)

// WithDir sets the working directory of launched commands.
func WithDir(dir string) Option { return func(s *Shell) { s.dir = dir } }

// New builds a Shell; an empty argv selects DefaultShell.
func New(argv []string, opts ...Option) (*Shell, error) {
	if len(argv) == 0 {
		argv = DefaultShell()
	}
	if strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("shell program required")
	}
	s := &Shell{argv: append([]string(nil), argv...)}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Argv returns the shell prefix.
func (s *Shell) Argv() []string { return append([]string(nil), s.argv...) }

// Launch starts command and returns once the process exists.
func (s *Shell) Launch(command string) error {
	args := append(append([]string(nil), s.argv[1:]...), command)
	cmd := exec.Command(s.argv[0], args...)
	cmd.Dir = s.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %q: %w", command, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
