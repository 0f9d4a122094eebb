package connectivity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// Switch is the mutable Source shared by the process. Reads are lock-free.
//
// A mode set with Pin stays in effect until Unpin; probe results reported
// through Observe are ignored while pinned.
type Switch struct {
	current atomic.Value
	pinned  atomic.Bool

	mu        sync.Mutex
	listeners []func(ctx context.Context, from, to Mode)

	log     logging.Logger
	metrics *metrics.Metrics
}

func NewSwitch(initial Mode, log logging.Logger, m *metrics.Metrics) *Switch {
	s := &Switch{log: log, metrics: m}
	s.current.Store(initial)
	m.SetMode(string(initial), modeNames()...)
	return s
}

func modeNames() []string {
	out := make([]string, 0, len(Modes))
	for _, m := range Modes {
		out = append(out, string(m))
	}
	return out
}

func (s *Switch) CurrentMode() Mode {
	return s.current.Load().(Mode)
}

// OnChange registers fn to be called after every transition.
func (s *Switch) OnChange(fn func(ctx context.Context, from, to Mode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set changes the mode and reports whether it changed.
func (s *Switch) Set(ctx context.Context, mode Mode) bool {
	return s.transition(ctx, mode, false, false)
}

// transition applies mode under s.mu. pin marks the switch pinned first;
// observed skips the change while pinned. Listeners run after the unlock.
func (s *Switch) transition(ctx context.Context, mode Mode, pin, observed bool) bool {
	s.mu.Lock()
	if pin {
		s.pinned.Store(true)
	}
	if observed && s.pinned.Load() {
		s.mu.Unlock()
		return false
	}
	from := s.CurrentMode()
	if from == mode {
		s.mu.Unlock()
		return false
	}
	s.current.Store(mode)
	listeners := append([]func(context.Context, Mode, Mode){}, s.listeners...)
	s.mu.Unlock()

	s.log.Info(ctx, "switched connectivity mode", "from", from, "to", mode)
	s.metrics.SetMode(string(mode), modeNames()...)

	for _, fn := range listeners {
		fn(ctx, from, mode)
	}
	return true
}

// Pin sets mode and ignores probe results until Unpin.
func (s *Switch) Pin(ctx context.Context, mode Mode) bool {
	return s.transition(ctx, mode, true, false)
}

func (s *Switch) Unpin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned.Store(false)
}

func (s *Switch) Pinned() bool {
	return s.pinned.Load()
}

// Observe applies a probe result unless the mode is pinned.
func (s *Switch) Observe(ctx context.Context, mode Mode) bool {
	return s.transition(ctx, mode, false, true)
}
