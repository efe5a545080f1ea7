package crontab

import (
	"errors"
	"fmt"
	"strings"
)

// Parse reads a whole crontab. Blank lines and lines starting with '#' are
// skipped. Any bad line rejects the whole file: the result is either every
// entry or an error, never a partial set.
func Parse(text string) ([]*Entry, error) {
	entries := []*Entry{}
	for i, raw := range strings.Split(text, "\n") {
		line := strings.Trim(raw, " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := ParseLine(i+1, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseLine parses "<min> <hour> <dom> <month> <dow> <command...>". The
// command is the rest of the line after the whitespace following the fifth
// field, kept verbatim.
func ParseLine(lineNo int, line string) (*Entry, error) {
	rest := line
	parts := make([]string, 0, 5)
	for len(parts) < 5 {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("%w: got %d of 5", ErrMissingFields, len(parts))}
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		parts = append(parts, rest[:end])
		rest = rest[end:]
	}
	command := strings.TrimLeft(rest, " \t")

	schedule, err := ParseSchedule(parts[0], parts[1], parts[2], parts[3], parts[4])
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Line = lineNo
			return nil, pe
		}
		return nil, &ParseError{Line: lineNo, Err: err}
	}
	return NewEntry(lineNo, strings.Join(parts, " "), command, schedule), nil
}
