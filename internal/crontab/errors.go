package crontab

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax        = errors.New("invalid field syntax")
	ErrOutOfRange    = errors.New("value out of range")
	ErrZeroValue     = errors.New("zero in one-indexed field")
	ErrStep          = errors.New("invalid step")
	ErrMissingFields = errors.New("missing schedule fields")
	ErrUnsatisfiable = errors.New("no matching day within search bound")
	ErrPastInstant   = errors.New("computed run is before now")
)

// ParseError reports a crontab line that failed to parse.
// Field is empty when the failure is not tied to a single field.
type ParseError struct {
	Line  int
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ScheduleError names the entry whose schedule could not produce a next run.
type ScheduleError struct {
	Line    int
	Command string
	Err     error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("entry at line %d (%q): %v", e.Line, e.Command, e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }
