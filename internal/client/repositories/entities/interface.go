package entities

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Row is one cached entity document.
type Row struct {
	RemoteID int64
	Data     []byte
}

// Repository describes keyed storage for cached entities.
type Repository interface {
	// Upsert inserts or replaces the document stored under (t, id).
	Upsert(ctx context.Context, t models.EntityType, id int64, data []byte) error

	// UpsertMany applies Upsert for every row atomically.
	UpsertMany(ctx context.Context, t models.EntityType, rows []Row) error

	// GetByID returns the document or common.ErrorNotFound.
	GetByID(ctx context.Context, t models.EntityType, id int64) ([]byte, error)

	// GetAll returns every document of type t ordered by remote id.
	GetAll(ctx context.Context, t models.EntityType) ([]Row, error)

	// DeleteByID removes a document; absent keys yield common.ErrorNotFound.
	DeleteByID(ctx context.Context, t models.EntityType, id int64) error
}
