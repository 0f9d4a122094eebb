package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const lastSyncKeyPrefix = "syncer.last_sync."

// Journal remembers when each entity type last replayed its whole queue.
type Journal struct {
	repo metadata.Repository
	now  func() time.Time
}

func NewJournal(repo metadata.Repository) *Journal {
	return &Journal{repo: repo, now: time.Now}
}

func (j *Journal) MarkSynced(ctx context.Context, t models.EntityType) error {
	stamp := j.now().UTC().Format(time.RFC3339)
	return j.repo.Set(ctx, lastSyncKeyPrefix+string(t), []byte(stamp))
}

// LastSync returns the last recorded replay; ok is false when there is none.
func (j *Journal) LastSync(ctx context.Context, t models.EntityType) (at time.Time, ok bool, err error) {
	raw, err := j.repo.Get(ctx, lastSyncKeyPrefix+string(t))
	if errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	at, err = time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stored last sync of %s: %w", t, err)
	}
	return at, true, nil
}
