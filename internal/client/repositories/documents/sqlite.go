package documents

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

func (r *SQLiteRepository) Get(ctx context.Context, kind models.DocumentKind, key string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM cached_documents WHERE kind = ? AND doc_key = ?`, string(kind), key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s[%s]: %w", kind, key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", kind, key, err)
	}
	return data, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, kind models.DocumentKind, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cached_documents (kind, doc_key, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, doc_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(kind), key, data, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put %s[%s]: %w", kind, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind models.DocumentKind, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cached_documents WHERE kind = ? AND doc_key = ?`, string(kind), key)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", kind, key, err)
	}
	return nil
}
