package connectivity

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// Pinger checks that the remote service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type WatcherOptions struct {
	Interval     time.Duration
	Attempts     uint
	RetryDelay   time.Duration
	ProbeTimeout time.Duration
}

func (o *WatcherOptions) withDefaults() {
	if o.Interval <= 0 {
		o.Interval = 3 * time.Second
	}
	if o.Attempts == 0 {
		o.Attempts = 1
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 200 * time.Millisecond
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 3 * time.Second
	}
}

// Watcher periodically pings the remote service and flips the Switch between
// ONLINE and OFFLINE.
type Watcher struct {
	pinger Pinger
	sw     *Switch
	opts   WatcherOptions
	log    logging.Logger
}

func NewWatcher(p Pinger, sw *Switch, opts WatcherOptions, log logging.Logger) *Watcher {
	opts.withDefaults()
	return &Watcher{pinger: p, sw: sw, opts: opts, log: log}
}

// Probe pings with retries and returns the observed mode. The switch is
// updated unless it is pinned.
func (w *Watcher) Probe(ctx context.Context) Mode {
	err := retry.Do(
		func() error {
			pctx, cancel := context.WithTimeout(ctx, w.opts.ProbeTimeout)
			defer cancel()
			return w.pinger.Ping(pctx)
		},
		retry.Context(ctx),
		retry.Attempts(w.opts.Attempts),
		retry.Delay(w.opts.RetryDelay),
		retry.MaxDelay(w.opts.Interval),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.log.Debug(ctx, "ping failed, retrying", "attempt", n+1, "error", err)
		}),
	)

	if ctx.Err() != nil {
		return w.sw.CurrentMode()
	}

	observed := ModeOnline
	if err != nil {
		observed = ModeOffline
		w.log.Debug(ctx, "remote unreachable", "error", err)
	}
	w.sw.Observe(ctx, observed)
	return observed
}

// Run probes immediately and then on every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	w.Probe(ctx)
	for {
		select {
		case <-ticker.C:
			w.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
