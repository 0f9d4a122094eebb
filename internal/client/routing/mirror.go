package routing

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

const defaultMirrorTimeout = 5 * time.Second

// Mirror runs best-effort cache writes after online reads. Writes outlive
// the caller's context, are bounded by a timeout, and are never retried.
// Failures are logged and counted.
type Mirror struct {
	timeout time.Duration
	log     logging.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewMirror(timeout time.Duration, log logging.Logger, m *metrics.Metrics) *Mirror {
	if timeout <= 0 {
		timeout = defaultMirrorTimeout
	}
	return &Mirror{timeout: timeout, log: log, metrics: m}
}

// Go starts fn on its own goroutine.
func (m *Mirror) Go(ctx context.Context, entity models.EntityType, op string, fn func(ctx context.Context) error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		if err := fn(mctx); err != nil {
			m.log.Warn(mctx, "cache mirror failed", "entity", entity, "op", op, "error", err)
			m.metrics.MirrorFailed(string(entity), op)
			return
		}
		m.log.Debug(mctx, "cache mirrored", "entity", entity, "op", op)
	}()
}

// Wait blocks until every started write has finished.
func (m *Mirror) Wait() {
	m.wg.Wait()
}
