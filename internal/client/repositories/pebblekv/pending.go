package pebblekv

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/pending"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Pending implements pending.Repository. Local ids come from one counter
// shared by all entity types, so they are unique and never reused.
type Pending struct {
	s *DB
}

func (s *DB) Pending() *Pending { return &Pending{s: s} }

var pendingSeqKey = []byte("seq/pending")

func pendingPrefix(t models.EntityType) []byte {
	return []byte("p/" + string(t) + "/")
}

func pendingKey(t models.EntityType, localID int64) []byte {
	return fmt.Appendf(pendingPrefix(t), "%020d", localID)
}

type storedRecord struct {
	LocalID        int64  `json:"local_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Payload        []byte `json:"payload"`
	CreatedAt      int64  `json:"created_at"`
}

func (sr storedRecord) record(t models.EntityType) pending.Record {
	return pending.Record{
		LocalID:        sr.LocalID,
		EntityType:     t,
		IdempotencyKey: sr.IdempotencyKey,
		Payload:        sr.Payload,
		CreatedAt:      time.Unix(0, sr.CreatedAt).UTC(),
	}
}

func (r *Pending) Append(_ context.Context, t models.EntityType, key string, payload []byte, createdAt time.Time) (pending.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var last int64
	raw, err := r.s.get(pendingSeqKey)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return pending.Record{}, fmt.Errorf("failed to read pending sequence: %w", err)
	default:
		last = int64(binary.BigEndian.Uint64(raw))
	}

	sr := storedRecord{
		LocalID:        last + 1,
		IdempotencyKey: key,
		Payload:        payload,
		CreatedAt:      createdAt.UnixNano(),
	}
	data, err := json.Marshal(sr)
	if err != nil {
		return pending.Record{}, fmt.Errorf("failed to encode pending %s: %w", t, err)
	}

	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, uint64(sr.LocalID))

	batch := r.s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(pendingSeqKey, seq, nil); err != nil {
		return pending.Record{}, fmt.Errorf("failed to append pending %s: %w", t, err)
	}
	if err := batch.Set(pendingKey(t, sr.LocalID), data, nil); err != nil {
		return pending.Record{}, fmt.Errorf("failed to append pending %s: %w", t, err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return pending.Record{}, fmt.Errorf("failed to append pending %s: %w", t, err)
	}
	return sr.record(t), nil
}

func (r *Pending) GetAll(ctx context.Context, t models.EntityType) ([]pending.Record, error) {
	result := []pending.Record{}
	err := r.s.scan(ctx, pendingPrefix(t), func(_, v []byte) error {
		var sr storedRecord
		if err := json.Unmarshal(v, &sr); err != nil {
			return fmt.Errorf("malformed pending record: %w", err)
		}
		result = append(result, sr.record(t))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error selecting pending %s: %w", t, err)
	}
	return result, nil
}

func (r *Pending) GetByID(_ context.Context, t models.EntityType, localID int64) (pending.Record, error) {
	sr, err := r.load(t, localID)
	if err != nil {
		return pending.Record{}, err
	}
	return sr.record(t), nil
}

func (r *Pending) load(t models.EntityType, localID int64) (storedRecord, error) {
	raw, err := r.s.get(pendingKey(t, localID))
	if errors.Is(err, common.ErrorNotFound) {
		return storedRecord{}, fmt.Errorf("pending %s %d: %w", t, localID, common.ErrorNotFound)
	}
	if err != nil {
		return storedRecord{}, fmt.Errorf("error selecting pending %s %d: %w", t, localID, err)
	}
	var sr storedRecord
	if err := json.Unmarshal(raw, &sr); err != nil {
		return storedRecord{}, fmt.Errorf("malformed pending %s %d: %w", t, localID, err)
	}
	return sr, nil
}

func (r *Pending) UpdatePayload(_ context.Context, t models.EntityType, localID int64, payload []byte) (pending.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sr, err := r.load(t, localID)
	if err != nil {
		return pending.Record{}, err
	}
	sr.Payload = payload
	data, err := json.Marshal(sr)
	if err != nil {
		return pending.Record{}, fmt.Errorf("failed to encode pending %s: %w", t, err)
	}
	if err := r.s.db.Set(pendingKey(t, localID), data, pebble.Sync); err != nil {
		return pending.Record{}, fmt.Errorf("error updating pending %s %d: %w", t, localID, err)
	}
	return sr.record(t), nil
}

func (r *Pending) DeleteAndReload(ctx context.Context, t models.EntityType, localID int64) ([]pending.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.load(t, localID); err != nil {
		return nil, err
	}
	if err := r.s.db.Delete(pendingKey(t, localID), pebble.Sync); err != nil {
		return nil, fmt.Errorf("error deleting pending %s %d: %w", t, localID, err)
	}
	return r.GetAll(ctx, t)
}
