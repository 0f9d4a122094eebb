// Package documents stores keyed aggregates that do not fit the one-row-per
// entity model: client and center accounts, the client template, center
// associations and survey question/response lists.
package documents

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Repository stores one JSON document per (kind, key).
type Repository interface {
	// Get returns the document or common.ErrorNotFound.
	Get(ctx context.Context, kind models.DocumentKind, key string) ([]byte, error)

	// Put inserts or replaces the document.
	Put(ctx context.Context, kind models.DocumentKind, key string, data []byte) error

	// Delete removes the document; a missing document is not an error.
	Delete(ctx context.Context, kind models.DocumentKind, key string) error
}
