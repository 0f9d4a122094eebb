package pending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, t models.EntityType, key string, payload []byte, createdAt time.Time) (Record, error) {
	ts := createdAt.UnixNano()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_writes (entity_type, idempotency_key, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(t), key, payload, ts)
	if err != nil {
		return Record{}, fmt.Errorf("failed to append pending %s: %w", t, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("failed to get pending id: %w", err)
	}
	return Record{
		LocalID:        id,
		EntityType:     t,
		IdempotencyKey: key,
		Payload:        payload,
		CreatedAt:      time.Unix(0, ts).UTC(),
	}, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, t models.EntityType) ([]Record, error) {
	return getAll(ctx, r.db, t)
}

func getAll(ctx context.Context, q dbx.DBTX, t models.EntityType) ([]Record, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT local_id, idempotency_key, payload, created_at FROM pending_writes
		WHERE entity_type = ? ORDER BY local_id`, string(t))
	if err != nil {
		return nil, fmt.Errorf("error selecting pending %s: %w", t, err)
	}
	defer rows.Close()

	result := []Record{}
	for rows.Next() {
		rec := Record{EntityType: t}
		var ts int64
		if err := rows.Scan(&rec.LocalID, &rec.IdempotencyKey, &rec.Payload, &ts); err != nil {
			return nil, fmt.Errorf("error scanning pending %s: %w", t, err)
		}
		rec.CreatedAt = time.Unix(0, ts).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending %s: %w", t, err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, t models.EntityType, localID int64) (Record, error) {
	return getByID(ctx, r.db, t, localID)
}

func getByID(ctx context.Context, q dbx.DBTX, t models.EntityType, localID int64) (Record, error) {
	rec := Record{EntityType: t}
	var ts int64
	err := q.QueryRowContext(ctx,
		`SELECT local_id, idempotency_key, payload, created_at FROM pending_writes
		WHERE entity_type = ? AND local_id = ?`, string(t), localID).
		Scan(&rec.LocalID, &rec.IdempotencyKey, &rec.Payload, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("pending %s %d: %w", t, localID, common.ErrorNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("error selecting pending %s %d: %w", t, localID, err)
	}
	rec.CreatedAt = time.Unix(0, ts).UTC()
	return rec, nil
}

func (r *SQLiteRepository) UpdatePayload(ctx context.Context, t models.EntityType, localID int64, payload []byte) (Record, error) {
	var rec Record
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE pending_writes SET payload = ? WHERE entity_type = ? AND local_id = ?`,
			payload, string(t), localID)
		if err != nil {
			return fmt.Errorf("error updating pending %s %d: %w", t, localID, err)
		}
		ra, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if ra == 0 {
			return fmt.Errorf("pending %s %d: %w", t, localID, common.ErrorNotFound)
		}
		rec, err = getByID(ctx, tx, t, localID)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteAndReload(ctx context.Context, t models.EntityType, localID int64) ([]Record, error) {
	var remaining []Record
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM pending_writes WHERE entity_type = ? AND local_id = ?`, string(t), localID)
		if err != nil {
			return fmt.Errorf("error deleting pending %s %d: %w", t, localID, err)
		}
		ra, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if ra == 0 {
			return fmt.Errorf("pending %s %d: %w", t, localID, common.ErrorNotFound)
		}
		remaining, err = getAll(ctx, tx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}
