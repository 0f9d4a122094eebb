package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/documents"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/pending"
)

// EntityStore is the typed view of cached entities of one type.
type EntityStore[T any] interface {
	ReadAll(ctx context.Context) (models.Page[T], error)
	ReadPage(ctx context.Context, offset, limit int) (models.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Upsert(ctx context.Context, v T) error
	UpsertMany(ctx context.Context, vs []T) error
}

// PendingQueue is the typed Pending Write Record queue of one entity type.
type PendingQueue[P any] interface {
	AppendPending(ctx context.Context, payload P) (models.PendingRecord[P], error)
	ReadPendingAll(ctx context.Context) ([]models.PendingRecord[P], error)
	UpdatePending(ctx context.Context, localID int64, payload P) (models.PendingRecord[P], error)
	DeletePendingAndReload(ctx context.Context, localID int64) ([]models.PendingRecord[P], error)
}

// DocumentStore is the typed view of one document kind.
type DocumentStore[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Put(ctx context.Context, key string, v T) error
}

// Identified is implemented by every cached entity.
type Identified interface {
	EntityID() int64
}

// Collection implements EntityStore over an entities.Repository.
type Collection[T Identified] struct {
	repo entities.Repository
	t    models.EntityType
}

func NewCollection[T Identified](repo entities.Repository, t models.EntityType) *Collection[T] {
	return &Collection[T]{repo: repo, t: t}
}

// ReadAll returns every cached entity as a single page.
func (c *Collection[T]) ReadAll(ctx context.Context) (models.Page[T], error) {
	items, err := c.list(ctx)
	if err != nil {
		return models.Page[T]{}, err
	}
	return models.NewPage(items), nil
}

// ReadPage slices the cached collection; TotalFilteredRecords is the size of
// the whole collection.
func (c *Collection[T]) ReadPage(ctx context.Context, offset, limit int) (models.Page[T], error) {
	items, err := c.list(ctx)
	if err != nil {
		return models.Page[T]{}, err
	}
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return models.Page[T]{TotalFilteredRecords: total, PageItems: items[offset:end]}, nil
}

func (c *Collection[T]) list(ctx context.Context) ([]T, error) {
	rows, err := c.repo.GetAll(ctx, c.t)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := json.Unmarshal(row.Data, &v); err != nil {
			return nil, fmt.Errorf("decode cached %s %d: %w", c.t, row.RemoteID, err)
		}
		items = append(items, v)
	}
	return items, nil
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	var v T
	data, err := c.repo.GetByID(ctx, c.t, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode cached %s %d: %w", c.t, id, err)
	}
	return v, nil
}

func (c *Collection[T]) Upsert(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", c.t, v.EntityID(), err)
	}
	return c.repo.Upsert(ctx, c.t, v.EntityID(), data)
}

func (c *Collection[T]) UpsertMany(ctx context.Context, vs []T) error {
	rows := make([]entities.Row, 0, len(vs))
	for _, v := range vs {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %d: %w", c.t, v.EntityID(), err)
		}
		rows = append(rows, entities.Row{RemoteID: v.EntityID(), Data: data})
	}
	return c.repo.UpsertMany(ctx, c.t, rows)
}

// Queue implements PendingQueue over a pending.Repository.
type Queue[P any] struct {
	repo   pending.Repository
	t      models.EntityType
	now    func() time.Time
	newKey func() string
}

func NewQueue[P any](repo pending.Repository, t models.EntityType) *Queue[P] {
	return &Queue[P]{
		repo:   repo,
		t:      t,
		now:    time.Now,
		newKey: func() string { return uuid.NewString() },
	}
}

// EntityType reports the type of the records held by the queue.
func (q *Queue[P]) EntityType() models.EntityType { return q.t }

func (q *Queue[P]) AppendPending(ctx context.Context, payload P) (models.PendingRecord[P], error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.PendingRecord[P]{}, fmt.Errorf("encode pending %s: %w", q.t, err)
	}
	rec, err := q.repo.Append(ctx, q.t, q.newKey(), data, q.now().UTC())
	if err != nil {
		return models.PendingRecord[P]{}, err
	}
	return decodeRecord[P](rec)
}

func (q *Queue[P]) ReadPendingAll(ctx context.Context) ([]models.PendingRecord[P], error) {
	recs, err := q.repo.GetAll(ctx, q.t)
	if err != nil {
		return nil, err
	}
	return decodeRecords[P](recs)
}

func (q *Queue[P]) UpdatePending(ctx context.Context, localID int64, payload P) (models.PendingRecord[P], error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.PendingRecord[P]{}, fmt.Errorf("encode pending %s: %w", q.t, err)
	}
	rec, err := q.repo.UpdatePayload(ctx, q.t, localID, data)
	if err != nil {
		return models.PendingRecord[P]{}, err
	}
	return decodeRecord[P](rec)
}

func (q *Queue[P]) DeletePendingAndReload(ctx context.Context, localID int64) ([]models.PendingRecord[P], error) {
	recs, err := q.repo.DeleteAndReload(ctx, q.t, localID)
	if err != nil {
		return nil, err
	}
	return decodeRecords[P](recs)
}

func decodeRecord[P any](rec pending.Record) (models.PendingRecord[P], error) {
	out := models.PendingRecord[P]{
		LocalID:        rec.LocalID,
		EntityType:     rec.EntityType,
		IdempotencyKey: rec.IdempotencyKey,
		CreatedAt:      rec.CreatedAt,
	}
	if err := json.Unmarshal(rec.Payload, &out.Payload); err != nil {
		return models.PendingRecord[P]{}, fmt.Errorf("decode pending %s %d: %w", rec.EntityType, rec.LocalID, err)
	}
	return out, nil
}

func decodeRecords[P any](recs []pending.Record) ([]models.PendingRecord[P], error) {
	out := make([]models.PendingRecord[P], 0, len(recs))
	for _, rec := range recs {
		r, err := decodeRecord[P](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Documents implements DocumentStore over a documents.Repository.
type Documents[T any] struct {
	repo documents.Repository
	kind models.DocumentKind
}

func NewDocuments[T any](repo documents.Repository, kind models.DocumentKind) *Documents[T] {
	return &Documents[T]{repo: repo, kind: kind}
}

func (d *Documents[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	data, err := d.repo.Get(ctx, d.kind, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s[%s]: %w", d.kind, key, err)
	}
	return v, nil
}

func (d *Documents[T]) Put(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s[%s]: %w", d.kind, key, err)
	}
	return d.repo.Put(ctx, d.kind, key, data)
}

// IDKey formats a numeric id as a document key.
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
