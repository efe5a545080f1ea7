package crontab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNextRunMemoizes(t *testing.T) {
	t.Parallel()
	e := NewEntry(1, "*/5 * * * *", "echo hi", mustSchedule(t, "*/5 * * * *"))

	now := at("2024-06-01 10:07:30")
	first, err := e.NextRun(now)
	require.NoError(t, err)
	assert.Equal(t, at("2024-06-01 10:10:00"), first)

	second, err := e.NextRun(now)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Later "now" that has not passed the cached instant keeps it.
	third, err := e.NextRun(at("2024-06-01 10:09:59"))
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestEntryNextRunRecomputesWhenPassed(t *testing.T) {
	t.Parallel()
	e := NewEntry(1, "*/5 * * * *", "echo hi", mustSchedule(t, "*/5 * * * *"))

	_, err := e.NextRun(at("2024-06-01 10:07:30"))
	require.NoError(t, err)

	// Exactly at the cached instant: still due.
	got, err := e.NextRun(at("2024-06-01 10:10:00"))
	require.NoError(t, err)
	assert.Equal(t, at("2024-06-01 10:10:00"), got)

	// Past it (after a dispatch cooldown): moves on.
	got, err = e.NextRun(at("2024-06-01 10:10:00").Add(500 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, at("2024-06-01 10:15:00"), got)
}

func TestEntryNextRunScheduleError(t *testing.T) {
	t.Parallel()
	e := NewEntry(7, "0 0 31 2 *", "never", mustSchedule(t, "0 0 31 2 *"))

	_, err := e.NextRun(at("2024-01-01 00:00:00"))
	var se *ScheduleError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 7, se.Line)
	assert.Equal(t, "never", se.Command)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
	assert.Contains(t, err.Error(), "line 7")
}
