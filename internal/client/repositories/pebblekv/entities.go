package pebblekv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cockroachdb/pebble"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/entities"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Entities implements entities.Repository.
type Entities struct {
	s *DB
}

func (s *DB) Entities() *Entities { return &Entities{s: s} }

func entityPrefix(t models.EntityType) []byte {
	return []byte("e/" + string(t) + "/")
}

func entityKey(t models.EntityType, id int64) []byte {
	return fmt.Appendf(entityPrefix(t), "%020d", id)
}

func (r *Entities) Upsert(_ context.Context, t models.EntityType, id int64, data []byte) error {
	if err := r.s.db.Set(entityKey(t, id), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to upsert %s %d: %w", t, id, err)
	}
	return nil
}

func (r *Entities) UpsertMany(_ context.Context, t models.EntityType, rows []entities.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := r.s.db.NewBatch()
	defer batch.Close()
	for _, row := range rows {
		if err := batch.Set(entityKey(t, row.RemoteID), row.Data, nil); err != nil {
			return fmt.Errorf("failed to upsert %s %d: %w", t, row.RemoteID, err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to commit %s batch: %w", t, err)
	}
	return nil
}

func (r *Entities) GetByID(_ context.Context, t models.EntityType, id int64) ([]byte, error) {
	data, err := r.s.get(entityKey(t, id))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%s %d: %w", t, id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", t, id, err)
	}
	return data, nil
}

func (r *Entities) GetAll(ctx context.Context, t models.EntityType) ([]entities.Row, error) {
	prefix := entityPrefix(t)
	var rows []entities.Row
	err := r.s.scan(ctx, prefix, func(k, v []byte) error {
		id, err := strconv.ParseInt(string(k[len(prefix):]), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed key %q: %w", k, err)
		}
		rows = append(rows, entities.Row{RemoteID: id, Data: v})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select %s rows: %w", t, err)
	}
	return rows, nil
}

func (r *Entities) DeleteByID(ctx context.Context, t models.EntityType, id int64) error {
	if _, err := r.GetByID(ctx, t, id); err != nil {
		return err
	}
	if err := r.s.db.Delete(entityKey(t, id), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", t, id, err)
	}
	return nil
}
