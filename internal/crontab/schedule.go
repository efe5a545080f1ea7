package crontab

import "time"

// Domain sizes passed to ParseField for each dimension.
const (
	MinuteLimit   = 60
	HourLimit     = 24
	MonthDayLimit = 32
	MonthLimit    = 13
	WeekDayLimit  = 7
)

// MaxSearchDays bounds the forward day scan of Schedule.Next (about ten years).
const MaxSearchDays = 3650

// Schedule combines the five fields. It is immutable once built.
type Schedule struct {
	Minute   Field
	Hour     Field
	MonthDay Field
	Month    Field
	WeekDay  Field
}

// ParseSchedule parses the five field texts in crontab order.
func ParseSchedule(minute, hour, monthDay, month, weekDay string) (Schedule, error) {
	specs := []struct {
		name       string
		text       string
		limit      int
		oneIndexed bool
	}{
		{"minute", minute, MinuteLimit, false},
		{"hour", hour, HourLimit, false},
		{"day-of-month", monthDay, MonthDayLimit, true},
		{"month", month, MonthLimit, true},
		{"day-of-week", weekDay, WeekDayLimit, false},
	}
	fields := make([]Field, len(specs))
	for i, sp := range specs {
		f, err := ParseField(sp.text, sp.limit, sp.oneIndexed)
		if err != nil {
			return Schedule{}, &ParseError{Field: sp.name, Text: sp.text, Err: err}
		}
		fields[i] = f
	}
	return Schedule{
		Minute:   fields[0],
		Hour:     fields[1],
		MonthDay: fields[2],
		Month:    fields[3],
		WeekDay:  fields[4],
	}, nil
}

// Next returns the earliest whole-minute instant satisfying every field that
// is not before t. A t exactly on a qualifying minute boundary is returned
// unchanged; otherwise the minute in progress is skipped. The result is in
// t's location. ErrUnsatisfiable is returned when no day within
// MaxSearchDays qualifies.
//
// Fields are matched against wall-clock time while the search advances in
// real minutes, so a wall time skipped by a DST change never matches and a
// repeated one matches on each pass.
func (s Schedule) Next(t time.Time) (time.Time, error) {
	from := minuteCeil(t)
	if s.dayMatches(from) {
		if next, ok := s.firstInDay(from); ok {
			return next, nil
		}
	}

	y, m, d := from.Date()
	for i := 1; i <= MaxSearchDays; i++ {
		day := startOfDay(y, m, d+i, from.Location())
		if !s.dayMatches(day) {
			continue
		}
		if next, ok := s.firstInDay(day); ok {
			return next, nil
		}
	}
	return time.Time{}, ErrUnsatisfiable
}

func (s Schedule) dayMatches(t time.Time) bool {
	return s.Month.Satisfy(int(t.Month())) &&
		s.MonthDay.Satisfy(t.Day()) &&
		s.WeekDay.Satisfy(int(t.Weekday()))
}

// firstInDay walks forward from the minute-aligned instant from until its
// calendar day ends, returning the first minute whose wall clock satisfies
// the hour and minute fields.
func (s Schedule) firstInDay(from time.Time) (time.Time, bool) {
	y, m, d := from.Date()
	for c := from; ; {
		if cy, cm, cd := c.Date(); cy != y || cm != m || cd != d {
			return time.Time{}, false
		}
		if !s.Hour.Satisfy(c.Hour()) {
			c = c.Add(time.Duration(MinuteLimit-c.Minute()) * time.Minute)
			continue
		}
		if s.Minute.Satisfy(c.Minute()) {
			return c, true
		}
		c = c.Add(time.Minute)
	}
}

// minuteCeil rounds t up to the next wall-clock minute boundary; t is kept
// when it already has no seconds part.
func minuteCeil(t time.Time) time.Time {
	frac := time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
	if frac == 0 {
		return t
	}
	return t.Add(time.Minute - frac)
}

// startOfDay is the first instant of the given calendar day. When local
// midnight does not exist (a DST change at 00:00), time.Date may land on the
// previous evening; step forward until the day begins.
func startOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	want := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for day.Day() != want.Day() {
		day = day.Add(30 * time.Minute)
	}
	return day
}
