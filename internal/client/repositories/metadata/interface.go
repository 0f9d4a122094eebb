// Package metadata stores small client-side settings as key/value pairs,
// such as the pinned connectivity mode and the time of the last replay.
package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get reports a missing key with
// common.ErrorNotFound; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
