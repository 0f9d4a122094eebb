package entities

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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const upsertQuery = `INSERT INTO cached_entities (entity_type, remote_id, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_type, remote_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, t models.EntityType, id int64, data []byte) error {
	_, err := r.db.ExecContext(ctx, upsertQuery, string(t), id, data, r.now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert %s %d: %w", t, id, err)
	}
	return nil
}

// UpsertMany writes all rows inside one transaction (or the caller's).
func (r *SQLiteRepository) UpsertMany(ctx context.Context, t models.EntityType, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	ts := r.now().UnixNano()
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, upsertQuery, string(t), row.RemoteID, row.Data, ts); err != nil {
				return fmt.Errorf("failed to upsert %s %d: %w", t, row.RemoteID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) GetByID(ctx context.Context, t models.EntityType, id int64) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM cached_entities WHERE entity_type = ? AND remote_id = ?`, string(t), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", t, id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", t, id, err)
	}
	return data, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, t models.EntityType) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT remote_id, data FROM cached_entities WHERE entity_type = ? ORDER BY remote_id`, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to select %s rows: %w", t, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.RemoteID, &row.Data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", t, err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, t models.EntityType, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cached_entities WHERE entity_type = ? AND remote_id = ?`, string(t), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", t, id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("%s %d: %w", t, id, common.ErrorNotFound)
	}
	return nil
}
