package dispatch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"minicron/internal/crontab"
	"minicron/internal/eventbus"
	logx "minicron/pkg/logx"
)

// Loop is the dispatch loop. Build it with New and run it with Run.
type Loop struct {
	cfg   Config
	src   Source
	exec  Executor
	spawn Spawner
	clock Clock
	log   logx.Logger
	bus   eventbus.Bus

	degraded *logx.Limited

	// reload is a single-slot signal: senders never block and repeated
	// signals before the loop drains it collapse into one.
	reload        chan struct{}
	reloadPending bool

	// entries is nil while the crontab is rejected (degraded), and empty but
	// non-nil for a valid crontab without jobs.
	entries []*crontab.Entry
	pending []*crontab.Entry
}

type Option func(*Loop)

func WithLogger(log logx.Logger) Option { return func(l *Loop) { l.log = log } }
func WithBus(bus eventbus.Bus) Option   { return func(l *Loop) { l.bus = bus } }
func WithClock(c Clock) Option          { return func(l *Loop) { l.clock = c } }
func WithSpawner(s Spawner) Option      { return func(l *Loop) { l.spawn = s } }

func New(cfg Config, src Source, exec Executor, opts ...Option) *Loop {
	l := &Loop{
		cfg:    cfg.withDefaults(),
		src:    src,
		exec:   exec,
		clock:  realClock{},
		bus:    eventbus.Nop{},
		reload: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(l)
	}
	if l.log.IsZero() {
		l.log = logx.Nop()
	}
	if l.spawn == nil {
		l.spawn = SpawnerFunc(func(_ string, fn func()) { go fn() })
	}
	l.degraded = l.log.Limited(time.Minute, 1)
	return l
}

// Reload asks the loop to re-read its source before its next decision.
// It never blocks.
func (l *Loop) Reload() {
	select {
	case l.reload <- struct{}{}:
	default:
	}
}

// Run loads the source once and loops until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.load()
	for {
		if err := l.step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// step is one loop iteration: apply a pending reload, fire the armed batch,
// then plan and perform the next sleep.
func (l *Loop) step(ctx context.Context) error {
	if l.takeReload() {
		l.log.Info("crontab change detected, reloading")
		l.load()
	}

	if len(l.pending) > 0 {
		l.dispatch(l.pending)
		l.pending = nil
		if err := l.sleep(ctx, l.cfg.Cooldown); err != nil {
			return err
		}
		if l.reloadPending {
			return nil
		}
	}

	return l.sleep(ctx, l.plan())
}

func (l *Loop) takeReload() bool {
	if l.reloadPending {
		l.reloadPending = false
		return true
	}
	select {
	case <-l.reload:
		return true
	default:
		return false
	}
}

// load replaces the entry set wholesale and drops any armed batch.
func (l *Loop) load() {
	l.pending = nil
	entries, err := l.src.Load()
	if err != nil {
		l.entries = nil
		l.log.Error("crontab rejected, nothing is scheduled until the next valid reload", logx.Err(err))
		l.bus.Publish(eventbus.Event{Type: eventbus.TypeRejected, Data: RejectedEvent{Err: err.Error()}})
		return
	}
	if entries == nil {
		entries = []*crontab.Entry{}
	}
	l.entries = entries
	l.degraded.Reset()
	l.log.Info("crontab loaded", logx.Int("entries", len(entries)))
	l.bus.Publish(eventbus.Event{Type: eventbus.TypeReloaded, Data: ReloadedEvent{Entries: len(entries)}})
}

// plan picks the nearest next run. When it is within the lookahead window
// the batch sharing that instant is armed and the returned wait ends
// exactly at it; otherwise the wait is capped by the poll interval.
func (l *Loop) plan() time.Duration {
	wait := l.cfg.PollInterval
	if l.entries == nil {
		l.degraded.Warn("wrong crontab format, doing nothing")
		return wait
	}

	now := l.now()
	nearest, ok := l.nearest(now)
	if !ok {
		return wait
	}

	until := nearest.Sub(now)
	if until < l.cfg.Lookahead {
		l.pending = l.batch(nearest, now)
		l.log.Debug("batch armed", logx.Time("at", nearest), logx.Int("jobs", len(l.pending)))
		return until
	}
	if until < wait {
		wait = until
	}
	return wait
}

// nearest returns the minimum next run over all entries. Entries whose
// schedule can never fire are disabled for the lifetime of this entry set.
func (l *Loop) nearest(now time.Time) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
		kept     = l.entries[:0]
	)
	for _, e := range l.entries {
		next, err := e.NextRun(now)
		if err != nil {
			l.disable(e, err)
			continue
		}
		kept = append(kept, e)
		if !found || next.Before(earliest) {
			earliest = next
			found = true
		}
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
	return earliest, found
}

func (l *Loop) disable(e *crontab.Entry, err error) {
	l.log.Error("entry disabled", logx.Int("line", e.Line), logx.String("command", e.Command), logx.Err(err))
	l.bus.Publish(eventbus.Event{
		Type: eventbus.TypeEntryDisabled,
		Data: EntryEvent{Line: e.Line, Command: e.Command, Err: err.Error()},
	})
}

// batch collects every entry due exactly at the given instant. Order carries
// no meaning.
func (l *Loop) batch(at, now time.Time) []*crontab.Entry {
	var out []*crontab.Entry
	for _, e := range l.entries {
		next, err := e.NextRun(now)
		if err == nil && next.Equal(at) {
			out = append(out, e)
		}
	}
	return out
}

func (l *Loop) dispatch(batch []*crontab.Entry) {
	tasks := "tasks"
	if len(batch) == 1 {
		tasks = "task"
	}
	l.log.Info("running "+strconv.Itoa(len(batch))+" scheduled "+tasks, logx.Int("jobs", len(batch)))

	commands := make([]string, 0, len(batch))
	for _, e := range batch {
		commands = append(commands, e.Command)
	}
	l.bus.Publish(eventbus.Event{Type: eventbus.TypeBatch, Data: BatchEvent{At: l.now(), Commands: commands}})

	for _, e := range batch {
		line, command := e.Line, e.Command
		l.spawn.Spawn("job:line-"+strconv.Itoa(line), func() {
			if err := l.exec.Launch(command); err != nil {
				l.log.Error("job launch failed", logx.Int("line", line), logx.String("command", command), logx.Err(err))
				l.bus.Publish(eventbus.Event{
					Type: eventbus.TypeLaunchFailed,
					Data: EntryEvent{Line: line, Command: command, Err: err.Error()},
				})
			}
		})
	}
}

// sleep waits for d, ctx cancellation, or a reload signal, whichever comes
// first. A reload seen here is remembered for the next iteration.
func (l *Loop) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	l.log.Trace("sleeping", logx.Duration("for", d))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.reload:
		l.reloadPending = true
		return nil
	case <-l.clock.After(d):
		return nil
	}
}

func (l *Loop) now() time.Time { return l.clock.Now().In(l.cfg.Location) }
