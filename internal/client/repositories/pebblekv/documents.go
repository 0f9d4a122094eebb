package pebblekv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Documents implements documents.Repository.
type Documents struct {
	s *DB
}

func (s *DB) Documents() *Documents { return &Documents{s: s} }

func documentKey(kind models.DocumentKind, key string) []byte {
	return []byte("d/" + string(kind) + "/" + key)
}

func (r *Documents) Get(_ context.Context, kind models.DocumentKind, key string) ([]byte, error) {
	data, err := r.s.get(documentKey(kind, key))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%s[%s]: %w", kind, key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", kind, key, err)
	}
	return data, nil
}

func (r *Documents) Put(_ context.Context, kind models.DocumentKind, key string, data []byte) error {
	if err := r.s.db.Set(documentKey(kind, key), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to put %s[%s]: %w", kind, key, err)
	}
	return nil
}

func (r *Documents) Delete(_ context.Context, kind models.DocumentKind, key string) error {
	if err := r.s.db.Delete(documentKey(kind, key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete %s[%s]: %w", kind, key, err)
	}
	return nil
}
