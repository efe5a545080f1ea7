// Package app wires the daemon: settings, logging, the dispatch loop, the
// crontab watcher and systemd notification, all under one supervisor.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"minicron/internal/config"
	"minicron/internal/crontab"
	"minicron/internal/dispatch"
	"minicron/internal/eventbus"
	"minicron/internal/executor"
	"minicron/internal/runtime/supervisor"
	"minicron/internal/sdnotify"
	"minicron/internal/watch"
	logx "minicron/pkg/logx"
)

// watchMaxRestarts bounds how often a failing crontab watcher is recreated
// before the daemon gives up.
const watchMaxRestarts = 5

// Options are command-line overrides applied on top of the settings file.
type Options struct {
	ConfigPath  string
	CrontabPath string
	LogLevel    string
}

// Settings loads the settings file, applies opts, and resolves the crontab
// path (creating an empty crontab when none exists).
func Settings(opts Options) (*config.Config, string, error) {
	cfg, err := config.NewConfigManager(opts.ConfigPath).Parse()
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}
	if lvl := strings.TrimSpace(opts.LogLevel); lvl != "" {
		if !logx.ValidLevel(lvl) {
			return nil, "", fmt.Errorf("unknown log level %q", lvl)
		}
		cfg.Logging.Level = lvl
	}
	if p := strings.TrimSpace(opts.CrontabPath); p != "" {
		cfg.Crontab = p
	}
	path, err := crontab.PathResolver{Override: cfg.Crontab}.Path()
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

type App struct {
	cfg         *config.Config
	crontabPath string

	logs *logx.Service
	log  logx.Logger
	bus  eventbus.Bus

	shell    *executor.Shell
	dispatch dispatch.Config

	sup  *supervisor.Supervisor
	loop *dispatch.Loop
}

func New(opts Options) (*App, error) {
	cfg, path, err := Settings(opts)
	if err != nil {
		return nil, err
	}
	dcfg, err := cfg.DispatchSettings()
	if err != nil {
		return nil, err
	}
	shell, err := executor.New(cfg.Shell)
	if err != nil {
		return nil, err
	}

	logs, log := logx.New(cfg.LoggerConfig())
	return &App{
		cfg:         cfg,
		crontabPath: path,
		logs:        logs,
		log:         log.With(logx.String("comp", "app")),
		bus:         eventbus.New(),
		shell:       shell,
		dispatch:    dcfg,
	}, nil
}

func (a *App) CrontabPath() string { return a.crontabPath }

// Bus exposes the event bus; subscribe before Start to see the first load.
func (a *App) Bus() eventbus.Bus { return a.bus }

func (a *App) Start(ctx context.Context) error {
	root := a.logs.Logger()
	a.sup = supervisor.NewSupervisor(ctx,
		supervisor.WithLogger(root.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)

	// Subscriptions go first so the initial load event is not missed.
	evCh, evUnsub := a.bus.Subscribe(64)
	a.sup.Go0("events", func(ctx context.Context) {
		defer evUnsub()
		a.logEvents(ctx, evCh, root.With(logx.String("comp", "events")))
	})
	if a.cfg.NotifyEnabled() {
		sdCh, sdUnsub := a.bus.Subscribe(16)
		n := sdnotify.New(sdnotify.WithLogger(root.With(logx.String("comp", "sdnotify"))))
		a.sup.Go("sdnotify", func(ctx context.Context) error {
			defer sdUnsub()
			return n.Run(ctx, sdCh)
		})
	}

	src := crontab.FileSource{Resolver: crontab.PathResolver{Override: a.crontabPath}}
	a.loop = dispatch.New(a.dispatch, src, a.shell,
		dispatch.WithLogger(root.With(logx.String("comp", "dispatch"))),
		dispatch.WithBus(a.bus),
		dispatch.WithSpawner(a.sup),
	)
	a.sup.Go("dispatch", a.loop.Run)

	w := watch.New(a.crontabPath, a.loop.Reload, watch.WithLogger(root.With(logx.String("comp", "watch"))))
	a.sup.GoRestart("watch", w.Run,
		supervisor.WithMaxRestarts(watchMaxRestarts),
		supervisor.WithFatalOnFinalError(true),
	)

	a.log.Info("started",
		logx.String("crontab", a.crontabPath),
		logx.String("shell", strings.Join(a.shell.Argv(), " ")),
		logx.String("tz", a.dispatch.Location.String()),
	)
	return nil
}

// Reload asks the dispatch loop to re-read the crontab (SIGHUP).
func (a *App) Reload() {
	if a.loop != nil {
		a.loop.Reload()
	}
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// Stop cancels every component and waits for them within ctx. Commands
// already launched keep running.
func (a *App) Stop(ctx context.Context, reason string) error {
	defer a.logs.Close()
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", reason))
	start := time.Now()
	err := a.sup.Stop(ctx)
	c := a.sup.Counters()
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		a.log.Warn("stop deadline reached",
			logx.Err(err),
			logx.Duration("elapsed", time.Since(start)),
			logx.Int("still_running", int(c.Active)),
		)
		return err
	}
	a.log.Info("stopped", logx.Duration("took", time.Since(start)), logx.Int("goroutines", int(c.Started)))
	return nil
}

func (a *App) logEvents(ctx context.Context, ch <-chan eventbus.Event, log logx.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			log.Debug("event", logx.String("type", ev.Type), logx.Any("data", ev.Data))
		}
	}
}
