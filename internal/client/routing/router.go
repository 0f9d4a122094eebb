package routing

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// Router routes the operations of one entity type.
type Router struct {
	entity  models.EntityType
	mode    connectivity.Source
	mirror  *Mirror
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewRouter(entity models.EntityType, mode connectivity.Source, mirror *Mirror, log logging.Logger, m *metrics.Metrics) *Router {
	return &Router{
		entity:  entity,
		mode:    mode,
		mirror:  mirror,
		log:     log.With("entity", entity),
		metrics: m,
	}
}

func (r *Router) EntityType() models.EntityType { return r.entity }

// CurrentMode is the mode the next routed call will see.
func (r *Router) CurrentMode() connectivity.Mode { return r.mode.CurrentMode() }

func (r *Router) route(ctx context.Context, op string) connectivity.Mode {
	mode := r.mode.CurrentMode()
	r.log.Debug(ctx, "routing", "op", op, "mode", mode)
	return mode
}

func (r *Router) record(op, path string) {
	r.metrics.Request(string(r.entity), op, path)
}

// ReadOp describes a routed read. Mirror and Empty are optional; a nil Empty
// yields the zero value.
type ReadOp[T any] struct {
	Remote func(ctx context.Context) (T, error)
	Local  func(ctx context.Context) (T, error)
	Mirror func(ctx context.Context, v T) error
	Empty  func() T
}

func (o ReadOp[T]) empty() T {
	if o.Empty == nil {
		var zero T
		return zero
	}
	return o.Empty()
}

// CreateOp describes a routed creation. Offline, the payload is appended to
// Queue and Saved builds the caller's result from the stored record.
type CreateOp[P, R any] struct {
	Remote func(ctx context.Context, payload P) (R, error)
	Queue  store.PendingQueue[P]
	Saved  func(rec models.PendingRecord[P]) R
	Empty  func() R
}

func (o CreateOp[P, R]) empty() R {
	if o.Empty == nil {
		var zero R
		return zero
	}
	return o.Empty()
}

// settle enforces that a result is never delivered after ctx is done.
func settle[T any](ctx context.Context, v T, err error) (T, error) {
	if cerr := ctx.Err(); cerr != nil {
		var zero T
		return zero, cerr
	}
	return v, err
}

// Read routes a non-paged read. Online results are returned as is and the
// Mirror, if any, is dispatched in the background.
func Read[T any](ctx context.Context, r *Router, op string, o ReadOp[T]) (T, error) {
	return read(ctx, r, op, 0, o)
}

// ReadPage is Read for paginated listings. Offline, only the first page
// (offset 0) is served from the cache; later offsets yield an empty Page
// without touching the store.
func ReadPage[T any](ctx context.Context, r *Router, op string, offset int, o ReadOp[models.Page[T]]) (models.Page[T], error) {
	return read(ctx, r, op, offset, o)
}

// read takes one mode snapshot per call; the offset rule is applied against
// that same snapshot.
func read[T any](ctx context.Context, r *Router, op string, offset int, o ReadOp[T]) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	switch r.route(ctx, op) {
	case connectivity.ModeOnline:
		r.record(op, metrics.PathRemote)
		v, err := o.Remote(ctx)
		v, err = settle(ctx, v, err)
		if err != nil {
			return v, err
		}
		if o.Mirror != nil {
			r.mirror.Go(ctx, r.entity, op, func(mctx context.Context) error {
				return o.Mirror(mctx, v)
			})
		}
		return v, nil

	case connectivity.ModeOffline:
		if offset > 0 {
			r.record(op, metrics.PathDefault)
			return o.empty(), nil
		}
		r.record(op, metrics.PathLocal)
		v, err := o.Local(ctx)
		return settle(ctx, v, err)

	default:
		r.record(op, metrics.PathDefault)
		return o.empty(), nil
	}
}

// Create routes a creation. Online, the remote result and error are returned
// unchanged. Offline, the payload is queued; a record appended before ctx
// was cancelled stays queued.
func Create[P, R any](ctx context.Context, r *Router, op string, payload P, o CreateOp[P, R]) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}

	switch r.route(ctx, op) {
	case connectivity.ModeOnline:
		r.record(op, metrics.PathRemote)
		v, err := o.Remote(ctx, payload)
		return settle(ctx, v, err)

	case connectivity.ModeOffline:
		r.record(op, metrics.PathQueued)
		rec, err := o.Queue.AppendPending(ctx, payload)
		if err != nil {
			var zero R
			return settle(ctx, zero, err)
		}
		r.metrics.PendingAppended(string(r.entity))
		r.log.Info(ctx, "queued pending write", "op", op, "local_id", rec.LocalID)
		return settle(ctx, o.Saved(rec), nil)

	default:
		r.record(op, metrics.PathDefault)
		return o.empty(), nil
	}
}

// Remote runs an online-only call regardless of the current mode.
func Remote[T any](ctx context.Context, r *Router, op string, call func(ctx context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	r.record(op, metrics.PathRemote)
	v, err := call(ctx)
	return settle(ctx, v, err)
}
