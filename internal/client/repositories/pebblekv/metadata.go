package pebblekv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Metadata implements metadata.Repository.
type Metadata struct {
	s *DB
}

func (s *DB) Metadata() *Metadata { return &Metadata{s: s} }

var metadataPrefix = []byte("m/")

func metadataKey(key string) []byte {
	return append(append([]byte(nil), metadataPrefix...), key...)
}

func (r *Metadata) Get(_ context.Context, key string) ([]byte, error) {
	v, err := r.s.get(metadataKey(key))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("metadata[%s]: %w", key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return v, nil
}

func (r *Metadata) Set(_ context.Context, key string, value []byte) error {
	if err := r.s.db.Set(metadataKey(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *Metadata) Delete(_ context.Context, key string) error {
	if err := r.s.db.Delete(metadataKey(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *Metadata) List(ctx context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := r.s.scan(ctx, metadataPrefix, func(k, v []byte) error {
		result[string(k[len(metadataPrefix):])] = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return result, nil
}

func (r *Metadata) Clear(_ context.Context) error {
	if err := r.s.db.DeleteRange(metadataPrefix, upperBound(metadataPrefix), pebble.Sync); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
