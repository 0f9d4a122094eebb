package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// Report summarizes one replay batch.
type Report struct {
	EntityType models.EntityType
	Replayed   int
	// Remaining holds the local ids still queued when the batch stopped.
	Remaining []int64
	// Failed is the local id of the record that stopped the batch, 0 if none.
	Failed int64
}

// Binding tells the coordinator how to replay one entity type. Cache and
// ToEntity are optional; without them a replay only removes queued records.
type Binding[P any, E store.Identified] struct {
	Entity   models.EntityType
	Queue    store.PendingQueue[P]
	Create   func(ctx context.Context, payload P, idempotencyKey string) (models.SaveResponse, error)
	Cache    store.EntityStore[E]
	ToEntity func(payload P, remoteID int64) E
}

type queue struct {
	running sync.Mutex
	replay  func(ctx context.Context) (Report, error)
}

type Coordinator struct {
	mode    connectivity.Source
	log     logging.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	order   []models.EntityType
	queues  map[models.EntityType]*queue
	journal *Journal

	background sync.WaitGroup
}

func New(mode connectivity.Source, log logging.Logger, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		mode:    mode,
		log:     log,
		metrics: m,
		queues:  make(map[models.EntityType]*queue),
	}
}

// Register adds or replaces the binding of b.Entity.
func Register[P any, E store.Identified](c *Coordinator, b Binding[P, E]) {
	q := &queue{replay: func(ctx context.Context) (Report, error) {
		return replay(ctx, c, b)
	}}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.queues[b.Entity]; !ok {
		c.order = append(c.order, b.Entity)
	}
	c.queues[b.Entity] = q
}

// EntityTypes lists the registered types in registration order.
func (c *Coordinator) EntityTypes() []models.EntityType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.EntityType(nil), c.order...)
}

// Sync replays the queue of t. It refuses with ErrNotOnline unless the mode
// is online and with ErrSyncInProgress while another replay of t runs. A
// failed record is reported as *ReplayError.
func (c *Coordinator) Sync(ctx context.Context, t models.EntityType) (Report, error) {
	c.mu.RLock()
	q, ok := c.queues[t]
	c.mu.RUnlock()
	if !ok {
		return Report{EntityType: t}, fmt.Errorf("%w: %q", common.ErrorUnknownEntity, t)
	}

	if c.mode.CurrentMode() != connectivity.ModeOnline {
		return Report{EntityType: t}, ErrNotOnline
	}

	if !q.running.TryLock() {
		return Report{EntityType: t}, ErrSyncInProgress
	}
	defer q.running.Unlock()

	rep, err := q.replay(ctx)
	if err == nil {
		c.markSynced(ctx, t)
	}
	return rep, err
}

// UseJournal makes every replay that drains its queue record the time in j.
func (c *Coordinator) UseJournal(j *Journal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.journal = j
}

func (c *Coordinator) markSynced(ctx context.Context, t models.EntityType) {
	c.mu.RLock()
	j := c.journal
	c.mu.RUnlock()
	if j == nil {
		return
	}
	if err := j.MarkSynced(context.WithoutCancel(ctx), t); err != nil {
		c.log.Warn(ctx, "last sync not recorded", "entity", t, "error", err)
	}
}

// SyncAll replays every registered type in parallel. Every type runs to its
// own end; the returned error joins the failures.
func (c *Coordinator) SyncAll(ctx context.Context) ([]Report, error) {
	if c.mode.CurrentMode() != connectivity.ModeOnline {
		return nil, ErrNotOnline
	}

	types := c.EntityTypes()
	reports := make([]Report, len(types))
	errs := make([]error, len(types))

	// A Group without a context does not cancel siblings on failure, so every
	// type still runs to its end; Wait only tells whether any failed.
	var g errgroup.Group
	for i, t := range types {
		g.Go(func() error {
			reports[i], errs[i] = c.Sync(ctx, t)
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		return reports, errors.Join(errs...)
	}
	return reports, nil
}

// HandleModeChange starts a background SyncAll when the mode becomes online.
// It has the signature of a connectivity.Switch listener.
func (c *Coordinator) HandleModeChange(ctx context.Context, from, to connectivity.Mode) {
	if to != connectivity.ModeOnline || from == connectivity.ModeOnline {
		return
	}

	c.background.Add(1)
	go func() {
		defer c.background.Done()

		reports, err := c.SyncAll(ctx)
		for _, r := range reports {
			if r.Replayed > 0 {
				c.log.Info(ctx, "auto-sync replayed pending records", "entity", r.EntityType, "replayed", r.Replayed)
			}
		}
		if err != nil {
			c.log.Warn(ctx, "auto-sync incomplete", "error", err)
		}
	}()
}

// Wait blocks until background syncs started by HandleModeChange finish.
func (c *Coordinator) Wait() {
	c.background.Wait()
}

func replay[P any, E store.Identified](ctx context.Context, c *Coordinator, b Binding[P, E]) (Report, error) {
	rep := Report{EntityType: b.Entity}
	entity := string(b.Entity)
	log := c.log.With("entity", b.Entity)

	start := time.Now()
	defer func() { c.metrics.ObserveReplay(entity, time.Since(start)) }()

	recs, err := b.Queue.ReadPendingAll(ctx)
	if err != nil {
		return rep, fmt.Errorf("read pending %s: %w", b.Entity, err)
	}

	for len(recs) > 0 {
		head := recs[0]

		if err := ctx.Err(); err != nil {
			rep.Remaining = localIDs(recs)
			return rep, err
		}

		resp, err := b.Create(ctx, head.Payload, head.IdempotencyKey)
		if err != nil {
			rep.Remaining = localIDs(recs)
			rep.Failed = head.LocalID
			c.metrics.ReplayFailed(entity)
			log.Warn(ctx, "replay stopped", "local_id", head.LocalID, "error", err)
			return rep, &ReplayError{EntityType: b.Entity, LocalID: head.LocalID, Err: err}
		}

		// The record is delivered; removing it must not be interrupted by
		// the caller going away.
		dctx := context.WithoutCancel(ctx)
		next, err := b.Queue.DeletePendingAndReload(dctx, head.LocalID)
		if err != nil {
			rep.Remaining = localIDs(recs)
			rep.Failed = head.LocalID
			c.metrics.ReplayFailed(entity)
			log.Error(ctx, "delivered record not removed", "local_id", head.LocalID, "error", err)
			return rep, &ReplayError{EntityType: b.Entity, LocalID: head.LocalID, Err: fmt.Errorf("remove delivered record: %w", err)}
		}

		rep.Replayed++
		c.metrics.Replayed(entity)
		log.Debug(ctx, "replayed pending record", "local_id", head.LocalID, "remote_id", remoteID(resp))

		reconcile(dctx, c, log, b, head, resp)
		recs = next
	}

	return rep, nil
}

// reconcile upserts the created entity into the cache. Failures are logged
// and counted; the queue removal stands.
func reconcile[P any, E store.Identified](ctx context.Context, c *Coordinator, log logging.Logger, b Binding[P, E], rec models.PendingRecord[P], resp models.SaveResponse) {
	if b.Cache == nil || b.ToEntity == nil {
		return
	}
	id := remoteID(resp)
	if id == 0 {
		log.Warn(ctx, "created entity has no remote id, cache not updated", "local_id", rec.LocalID)
		c.metrics.ReconcileFailed(string(b.Entity))
		return
	}
	if err := b.Cache.Upsert(ctx, b.ToEntity(rec.Payload, id)); err != nil {
		log.Warn(ctx, "cache reconciliation failed", "local_id", rec.LocalID, "remote_id", id, "error", err)
		c.metrics.ReconcileFailed(string(b.Entity))
	}
}

func remoteID(resp models.SaveResponse) int64 {
	switch {
	case resp.ResourceID != 0:
		return resp.ResourceID
	case resp.ClientID != 0:
		return resp.ClientID
	default:
		return resp.GroupID
	}
}

func localIDs[P any](recs []models.PendingRecord[P]) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.LocalID)
	}
	return out
}
