// Package metrics holds the Prometheus instruments of the routing engine,
// the sync coordinator and the connectivity watcher.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without instrumentation in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "fieldsync"

	PathRemote  = "remote"
	PathLocal   = "local"
	PathDefault = "default"
	PathQueued  = "queued"
)

type Metrics struct {
	requests          *prometheus.CounterVec
	mirrorFailures    *prometheus.CounterVec
	pendingAppended   *prometheus.CounterVec
	replayed          *prometheus.CounterVec
	replayFailures    *prometheus.CounterVec
	reconcileFailures *prometheus.CounterVec
	replayDuration    *prometheus.HistogramVec
	mode              *prometheus.GaugeVec
}

// New creates the instruments and registers them with reg. A nil reg yields
// unregistered instruments.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "requests_total",
			Help:      "Routed operations by entity type, operation and data path",
		}, []string{"entity", "op", "path"}),
		mirrorFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "mirror_failures_total",
			Help:      "Failed best-effort cache mirror writes",
		}, []string{"entity", "op"}),
		pendingAppended: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "appended_total",
			Help:      "Pending write records appended while offline",
		}, []string{"entity"}),
		replayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "replayed_total",
			Help:      "Pending write records delivered to the remote service",
		}, []string{"entity"}),
		replayFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "replay_failures_total",
			Help:      "Replay batches stopped by a failure",
		}, []string{"entity"}),
		reconcileFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "reconcile_failures_total",
			Help:      "Failed cache upserts after a successful replay",
		}, []string{"entity"}),
		replayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "replay_duration_seconds",
			Help:      "Duration of one replay batch",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		mode: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connectivity",
			Name:      "mode",
			Help:      "Current connectivity mode (1 for the active mode)",
		}, []string{"mode"}),
	}
}

func (m *Metrics) Request(entity, op, path string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(entity, op, path).Inc()
}

func (m *Metrics) MirrorFailed(entity, op string) {
	if m == nil {
		return
	}
	m.mirrorFailures.WithLabelValues(entity, op).Inc()
}

func (m *Metrics) PendingAppended(entity string) {
	if m == nil {
		return
	}
	m.pendingAppended.WithLabelValues(entity).Inc()
}

func (m *Metrics) Replayed(entity string) {
	if m == nil {
		return
	}
	m.replayed.WithLabelValues(entity).Inc()
}

func (m *Metrics) ReplayFailed(entity string) {
	if m == nil {
		return
	}
	m.replayFailures.WithLabelValues(entity).Inc()
}

func (m *Metrics) ReconcileFailed(entity string) {
	if m == nil {
		return
	}
	m.reconcileFailures.WithLabelValues(entity).Inc()
}

func (m *Metrics) ObserveReplay(entity string, d time.Duration) {
	if m == nil {
		return
	}
	m.replayDuration.WithLabelValues(entity).Observe(d.Seconds())
}

// SetMode marks current as the active mode among all.
func (m *Metrics) SetMode(current string, all ...string) {
	if m == nil {
		return
	}
	for _, mode := range all {
		v := 0.0
		if mode == current {
			v = 1
		}
		m.mode.WithLabelValues(mode).Set(v)
	}
}
