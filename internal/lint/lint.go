// Package lint inspects parsed crontab entries for schedules that will not
// behave the way a reader used to standard cron expects.
//
// minicron matches day-of-month AND day-of-week. Standard cron (and
// robfig/cron, used here as the reference) matches either one when both are
// restricted. Check reports where the two disagree.
package lint

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"minicron/internal/crontab"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one observation about one entry.
type Finding struct {
	Line     int
	Command  string
	Spec     string
	Severity Severity
	Message  string

	// Next is minicron's next run. Zero for unsatisfiable entries.
	Next time.Time
	// Standard is the next run under standard cron semantics, when it was
	// computed.
	Standard time.Time
}

// Check evaluates entries relative to now. Entries are not modified; their
// memoized next run is left untouched.
func Check(entries []*crontab.Entry, now time.Time) []Finding {
	var out []Finding
	for _, e := range entries {
		next, err := e.Schedule.Next(now)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, crontab.ErrUnsatisfiable) {
				msg = "schedule never matches; entry will be disabled"
			}
			out = append(out, Finding{
				Line: e.Line, Command: e.Command, Spec: e.Spec,
				Severity: SeverityError, Message: msg,
			})
			continue
		}
		if !bothDaysRestricted(e) {
			continue
		}
		f := Finding{
			Line: e.Line, Command: e.Command, Spec: e.Spec,
			Severity: SeverityWarning, Next: next,
			Message: "day-of-month and day-of-week are both restricted; both must match",
		}
		if std, ok := standardNext(e.Spec, now); ok {
			f.Standard = std
			if std.Equal(next) {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func bothDaysRestricted(e *crontab.Entry) bool {
	fields := e.SpecFields()
	if len(fields) != 5 {
		return false
	}
	return !unrestricted(fields[2]) && !unrestricted(fields[4])
}

// Vixie cron treats a day field starting with '*' as unrestricted for the
// day-matching rule, including "*/2".
func unrestricted(field string) bool { return len(field) > 0 && field[0] == '*' }

// standardParser reads the same five fields minicron does.
var standardParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func standardNext(spec string, now time.Time) (time.Time, bool) {
	sched, err := standardParser.Parse(spec)
	if err != nil {
		return time.Time{}, false
	}
	// cron's Next is strictly after its argument; step back so a boundary
	// equal to now is included, as in minicron.
	next := sched.Next(now.Add(-time.Nanosecond))
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
