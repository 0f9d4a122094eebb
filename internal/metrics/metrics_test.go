package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.Request("client", "list", PathRemote)
	m.Request("client", "list", PathRemote)
	m.Request("client", "list", PathLocal)
	m.MirrorFailed("office", "list")
	m.PendingAppended("center")
	m.Replayed("center")
	m.ReplayFailed("center")
	m.ReconcileFailed("center")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("client", "list", PathRemote)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("client", "list", PathLocal)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mirrorFailures.WithLabelValues("office", "list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pendingAppended.WithLabelValues("center")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replayed.WithLabelValues("center")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replayFailures.WithLabelValues("center")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconcileFailures.WithLabelValues("center")))
}

func TestMetrics_SetMode(t *testing.T) {
	m := New(nil)
	m.SetMode("offline", "online", "offline", "unknown")

	assert.Equal(t, 0.0, testutil.ToFloat64(m.mode.WithLabelValues("online")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mode.WithLabelValues("offline")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.mode.WithLabelValues("unknown")))
}

func TestMetrics_RegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Replayed("client")
	m.ObserveReplay("client", 20*time.Millisecond)

	expected := `
# HELP fieldsync_sync_replayed_total Pending write records delivered to the remote service
# TYPE fieldsync_sync_replayed_total counter
fieldsync_sync_replayed_total{entity="client"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fieldsync_sync_replayed_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.replayDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Request("client", "get", PathRemote)
		m.MirrorFailed("client", "get")
		m.PendingAppended("client")
		m.Replayed("client")
		m.ReplayFailed("client")
		m.ReconcileFailed("client")
		m.ObserveReplay("client", time.Second)
		m.SetMode("online", "online")
	})
}
