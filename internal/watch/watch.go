// Package watch signals changes to a single file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "minicron/pkg/logx"
)

const DefaultDebounce = 250 * time.Millisecond

var ErrClosed = errors.New("watcher closed")

// Watcher calls notify after the watched file changes. It watches the parent
// directory so editors that replace the file (rename/create) are seen too.
// Bursts of events inside the debounce window produce one notification.
type Watcher struct {
	path     string
	notify   func()
	debounce time.Duration
	log      logx.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }
func WithLogger(log logx.Logger) Option   { return func(w *Watcher) { w.log = log } }

func New(path string, notify func(), opts ...Option) *Watcher {
	w := &Watcher{path: path, notify: notify, debounce: DefaultDebounce}
	for _, o := range opts {
		o(w)
	}
	if w.log.IsZero() {
		w.log = logx.Nop()
	}
	return w
}

// Run watches until ctx is cancelled (returning nil) or the underlying
// watcher fails (returning the error).
func (w *Watcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	file := filepath.Base(w.path)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, w.notify)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	w.log.Debug("watcher started", logx.String("dir", dir), logx.String("file", file))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return ErrClosed
			}
			// Match by basename; the directory may be reported in another form.
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
				w.log.Debug("change detected", logx.String("op", ev.Op.String()))
				trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return ErrClosed
			}
			if err == nil {
				continue
			}
			// Overflow means events were lost; reload once and keep going.
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watch overflow, forcing reload", logx.Err(err))
				trigger()
				continue
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}
