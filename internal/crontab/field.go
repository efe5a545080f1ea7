package crontab

import (
	"fmt"
	"strconv"
)

// Field is the parsed valid-value set of one schedule dimension.
// Index is the candidate value; one-indexed fields leave index 0 unused.
type Field struct {
	valid []bool
}

// Satisfy reports whether v is in the set. Callers keep v inside [0, Limit()).
func (f Field) Satisfy(v int) bool { return f.valid[v] }

// Limit is the domain size the field was parsed with.
func (f Field) Limit() int { return len(f.valid) }

// Values lists the valid values in ascending order.
func (f Field) Values() []int {
	var out []int
	for v, ok := range f.valid {
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// ParseField parses one field expression over the domain [0, limit), or
// [1, limit) when oneIndexed. Any invalid item rejects the whole field.
func ParseField(text string, limit int, oneIndexed bool) (Field, error) {
	valid := make([]bool, limit)
	p := fieldScanner{s: text}

	for {
		var (
			begin, end int
			stepOK     bool
			err        error
		)
		switch c := p.peek(); {
		case isDigit(c):
			if begin, err = p.number(); err != nil {
				return Field{}, err
			}
			end = begin
			if p.peek() == '-' {
				p.pos++
				if end, err = p.number(); err != nil {
					return Field{}, err
				}
				stepOK = true
			}
		case c == '*':
			p.pos++
			if oneIndexed {
				begin = 1
			}
			end = limit - 1
			stepOK = true
		default:
			return Field{}, p.syntaxError()
		}

		step := 1
		if p.peek() == '/' {
			if !stepOK {
				return Field{}, fmt.Errorf("%w: step on a single value", ErrStep)
			}
			p.pos++
			if step, err = p.number(); err != nil {
				return Field{}, err
			}
			if step == 0 {
				return Field{}, fmt.Errorf("%w: step must be > 0", ErrStep)
			}
		}

		if begin >= limit || end >= limit {
			return Field{}, fmt.Errorf("%w: must be < %d", ErrOutOfRange, limit)
		}
		if oneIndexed && (begin == 0 || end == 0) {
			return Field{}, ErrZeroValue
		}
		if begin > end {
			return Field{}, fmt.Errorf("%w: range %d-%d is reversed", ErrSyntax, begin, end)
		}

		for v := begin; v <= end; v += step {
			valid[v] = true
		}

		if p.done() {
			break
		}
		if p.peek() != ',' {
			return Field{}, p.syntaxError()
		}
		p.pos++
	}

	return Field{valid: valid}, nil
}

type fieldScanner struct {
	s   string
	pos int
}

func (p *fieldScanner) done() bool { return p.pos >= len(p.s) }

func (p *fieldScanner) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

// number reads a run of digits. Runs longer than three digits cannot be in
// any domain and are rejected before conversion.
func (p *fieldScanner) number() (int, error) {
	start := p.pos
	for !p.done() && isDigit(p.s[p.pos]) {
		p.pos++
	}
	digits := p.s[start:p.pos]
	if digits == "" {
		return 0, p.syntaxError()
	}
	if len(digits) > 3 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, digits)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return n, nil
}

func (p *fieldScanner) syntaxError() error {
	if p.done() {
		return fmt.Errorf("%w: unexpected end", ErrSyntax)
	}
	return fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.s[p.pos], p.pos)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
