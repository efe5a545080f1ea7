// Package sdnotify reports daemon state to systemd via the notify socket.
// Outside a Type=notify unit every send is a no-op.
package sdnotify

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"minicron/internal/dispatch"
	"minicron/internal/eventbus"
	logx "minicron/pkg/logx"
)

type SendFunc func(state string) (bool, error)

type Notifier struct {
	send     SendFunc
	watchdog func() (time.Duration, error)
	log      logx.Logger
}

type Option func(*Notifier)

// WithSend replaces the socket writer.
func WithSend(fn SendFunc) Option { return func(n *Notifier) { n.send = fn } }

// WithWatchdog replaces the WATCHDOG_USEC lookup.
func WithWatchdog(fn func() (time.Duration, error)) Option {
	return func(n *Notifier) { n.watchdog = fn }
}

func WithLogger(log logx.Logger) Option { return func(n *Notifier) { n.log = log } }

func New(opts ...Option) *Notifier {
	n := &Notifier{
		send:     func(state string) (bool, error) { return daemon.SdNotify(false, state) },
		watchdog: func() (time.Duration, error) { return daemon.SdWatchdogEnabled(false) },
		log:      logx.Nop(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Run sends READY=1 once the first load attempt has been published, keeps
// STATUS in step with reloads, and pets the watchdog when one is configured.
// STOPPING=1 is sent when ctx ends.
func (n *Notifier) Run(ctx context.Context, events <-chan eventbus.Event) error {
	var tick <-chan time.Time
	if every, err := n.watchdog(); err != nil {
		n.log.Warn("watchdog lookup failed", logx.Err(err))
	} else if every > 0 {
		t := time.NewTicker(every / 2)
		defer t.Stop()
		tick = t.C
	}

	ready := false
	for {
		select {
		case <-ctx.Done():
			n.notify(daemon.SdNotifyStopping)
			return nil
		case <-tick:
			n.notify(daemon.SdNotifyWatchdog)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			status, known := statusFor(ev)
			if !known {
				continue
			}
			state := "STATUS=" + status
			if !ready {
				state = daemon.SdNotifyReady + "\n" + state
				ready = true
			}
			n.notify(state)
		}
	}
}

func (n *Notifier) notify(state string) {
	if _, err := n.send(state); err != nil {
		n.log.Warn("sd_notify failed", logx.Err(err))
	}
}

func statusFor(ev eventbus.Event) (string, bool) {
	switch ev.Type {
	case eventbus.TypeReloaded:
		if d, ok := ev.Data.(dispatch.ReloadedEvent); ok {
			return fmt.Sprintf("%d entries scheduled", d.Entries), true
		}
		return "crontab loaded", true
	case eventbus.TypeRejected:
		return "crontab rejected, nothing scheduled", true
	}
	return "", false
}
