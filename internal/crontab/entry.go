package crontab

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one crontab line: a command and the schedule it runs on.
//
// The memoized next run is not synchronized; an Entry is owned by a single
// goroutine (the dispatch loop) for its whole life.
type Entry struct {
	Line     int
	Spec     string
	Command  string
	Schedule Schedule

	next time.Time
}

// NewEntry builds an entry with an empty next-run cache.
func NewEntry(line int, spec, command string, schedule Schedule) *Entry {
	return &Entry{Line: line, Spec: spec, Command: command, Schedule: schedule}
}

// NextRun returns the cached next run, recomputing it first when nothing is
// cached yet or the cached instant is before now. The result is never before
// now.
func (e *Entry) NextRun(now time.Time) (time.Time, error) {
	if e.next.IsZero() || e.next.Before(now) {
		next, err := e.Schedule.Next(now)
		if err == nil && next.Before(now) {
			err = fmt.Errorf("%w: %s < %s", ErrPastInstant, next.Format(time.RFC3339), now.Format(time.RFC3339))
		}
		if err != nil {
			e.next = time.Time{}
			return time.Time{}, &ScheduleError{Line: e.Line, Command: e.Command, Err: err}
		}
		e.next = next
	}
	return e.next, nil
}

// SpecFields splits Spec back into its five field texts.
func (e *Entry) SpecFields() []string { return strings.Fields(e.Spec) }
