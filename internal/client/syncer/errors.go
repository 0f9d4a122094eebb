package syncer

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

var (
	ErrNotOnline      = errors.New("sync requires online mode")
	ErrSyncInProgress = errors.New("sync already in progress")
)

// ReplayError reports the pending record that stopped a replay batch.
type ReplayError struct {
	EntityType models.EntityType
	LocalID    int64
	Err        error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay %s pending record %d: %v", e.EntityType, e.LocalID, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}
