// Package dispatch runs the scheduling loop: it keeps the active crontab
// entries, finds the nearest next run, sleeps until it is due and hands the
// batch of due commands to an executor.
//
// A single goroutine (Loop.Run) owns every entry and its memoized next run.
// Other goroutines only call Loop.Reload.
package dispatch
