package crontab

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// In 2024 New York falls back at 06:00 UTC on Nov 3 (01:xx repeats) and
// springs forward at 07:00 UTC on Mar 10 (02:xx is skipped).
func TestScheduleNextAcrossDST(t *testing.T) {
	t.Parallel()
	loc := newYork(t)
	tests := []struct {
		name string
		spec string
		from string // UTC
		want string // UTC
	}{
		{name: "repeated hour, second pass", spec: "* * * * *", from: "2024-11-03 06:30:30", want: "2024-11-03 06:31:00"},
		{name: "repeated hour, wall time again", spec: "30 1 * * *", from: "2024-11-03 06:10:00", want: "2024-11-03 06:30:00"},
		{name: "first pass rolls into second", spec: "30 1 * * *", from: "2024-11-03 05:45:00", want: "2024-11-03 06:30:00"},
		{name: "end of first pass", spec: "* * * * *", from: "2024-11-03 05:59:30", want: "2024-11-03 06:00:00"},
		{name: "hour after repeated hour", spec: "0 2 * * *", from: "2024-11-03 06:30:00", want: "2024-11-03 07:00:00"},
		{name: "skipped wall time from day before", spec: "30 2 * * *", from: "2024-03-09 17:00:00", want: "2024-03-11 06:30:00"},
		{name: "skipped wall time same day", spec: "30 2 * * *", from: "2024-03-10 06:31:00", want: "2024-03-11 06:30:00"},
		{name: "minute before the gap", spec: "* * * * *", from: "2024-03-10 06:59:30", want: "2024-03-10 07:00:00"},
		{name: "hour after the gap", spec: "0 3 * * *", from: "2024-03-10 06:31:00", want: "2024-03-10 07:00:00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mustSchedule(t, tt.spec).Next(at(tt.from).In(loc))
			require.NoError(t, err)
			assert.True(t, at(tt.want).Equal(got), "got %s", got)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestScheduleNextNeverBeforeInputAcrossDST(t *testing.T) {
	t.Parallel()
	loc := newYork(t)
	specs := []string{"* * * * *", "*/7 * * * *", "30 1 * * *", "30 2 * * *", "0 1-3 * * *", "59 1 * * *"}
	windows := []time.Time{at("2024-11-03 04:30:00"), at("2024-03-10 05:30:00")}

	for _, spec := range specs {
		s := mustSchedule(t, spec)
		for _, start := range windows {
			for i := 0; i < 4*60; i++ {
				from := start.Add(time.Duration(i)*time.Minute + 30*time.Second).In(loc)
				got, err := s.Next(from)
				require.NoError(t, err)
				require.False(t, got.Before(from), "%s from %s -> %s", spec, from, got)
				require.True(t, s.Hour.Satisfy(got.Hour()), "%s from %s -> %s", spec, from, got)
				require.True(t, s.Minute.Satisfy(got.Minute()), "%s from %s -> %s", spec, from, got)
			}
		}
	}
}

func TestEntryNextRunStableAcrossFallBack(t *testing.T) {
	t.Parallel()
	loc := newYork(t)
	e := NewEntry(1, "* * * * *", "job", mustSchedule(t, "* * * * *"))
	now := at("2024-11-03 06:30:30").In(loc)

	for i := 0; i < 3; i++ {
		got, err := e.NextRun(now)
		require.NoError(t, err)
		assert.True(t, at("2024-11-03 06:31:00").Equal(got), "got %s", got)
	}
}
