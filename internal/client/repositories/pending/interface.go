package pending

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Record is a stored pending creation with an encoded payload.
type Record struct {
	LocalID        int64
	EntityType     models.EntityType
	IdempotencyKey string
	Payload        []byte
	CreatedAt      time.Time
}

// Repository describes the pending write queue of every entity type.
type Repository interface {
	// Append stores a new record and returns it with its LocalID assigned.
	Append(ctx context.Context, t models.EntityType, key string, payload []byte, createdAt time.Time) (Record, error)

	// GetAll returns the records of type t, oldest first.
	GetAll(ctx context.Context, t models.EntityType) ([]Record, error)

	// GetByID returns one record or common.ErrorNotFound.
	GetByID(ctx context.Context, t models.EntityType, localID int64) (Record, error)

	// UpdatePayload replaces the payload only; common.ErrorNotFound if absent.
	UpdatePayload(ctx context.Context, t models.EntityType, localID int64, payload []byte) (Record, error)

	// DeleteAndReload removes the record and returns the remaining records of
	// type t. When the record is absent it returns common.ErrorNotFound and
	// leaves the queue untouched.
	DeleteAndReload(ctx context.Context, t models.EntityType, localID int64) ([]Record, error)
}
