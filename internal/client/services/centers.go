package services

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
)

type CenterService struct {
	r            *routing.Router
	api          remote.CentersAPI
	centers      store.EntityStore[models.Center]
	accounts     store.DocumentStore[models.CenterAccounts]
	associations store.DocumentStore[models.CenterWithAssociations]
	queue        store.PendingQueue[models.CenterPayload]
}

func NewCenterService(api remote.CentersAPI, d Deps) *CenterService {
	return &CenterService{
		r:            d.router(models.EntityCenter),
		api:          api,
		centers:      store.NewCollection[models.Center](d.Repos.Entities, models.EntityCenter),
		accounts:     store.NewDocuments[models.CenterAccounts](d.Repos.Documents, models.DocCenterAccounts),
		associations: store.NewDocuments[models.CenterWithAssociations](d.Repos.Documents, models.DocCenterAssociations),
		queue:        store.NewQueue[models.CenterPayload](d.Repos.Pending, models.EntityCenter),
	}
}

func (s *CenterService) Cache() store.EntityStore[models.Center] { return s.centers }

func (s *CenterService) Queue() store.PendingQueue[models.CenterPayload] { return s.queue }

func (s *CenterService) List(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Center], error) {
	return routing.ReadPage(ctx, s.r, "list", offset, routing.ReadOp[models.Page[models.Center]]{
		Remote: func(ctx context.Context) (models.Page[models.Center], error) {
			return s.api.ListCenters(ctx, paged, offset, limit)
		},
		Local: s.centers.ReadAll,
		Mirror: func(ctx context.Context, p models.Page[models.Center]) error {
			return s.centers.UpsertMany(ctx, p.PageItems)
		},
	})
}

func (s *CenterService) DatabaseCenters(ctx context.Context) (models.Page[models.Center], error) {
	return s.centers.ReadAll(ctx)
}

func (s *CenterService) SaveToCache(ctx context.Context, c models.Center) (models.Center, error) {
	if err := s.centers.Upsert(ctx, c); err != nil {
		return models.Center{}, err
	}
	return c, nil
}

// WithAssociations returns the center with its member groups.
func (s *CenterService) WithAssociations(ctx context.Context, centerID int64) (models.CenterWithAssociations, error) {
	key := store.IDKey(centerID)
	return routing.Read(ctx, s.r, "associations", routing.ReadOp[models.CenterWithAssociations]{
		Remote: func(ctx context.Context) (models.CenterWithAssociations, error) {
			return s.api.CenterWithAssociations(ctx, centerID)
		},
		Local: func(ctx context.Context) (models.CenterWithAssociations, error) {
			return s.associations.Get(ctx, key)
		},
		Mirror: func(ctx context.Context, c models.CenterWithAssociations) error {
			return s.associations.Put(ctx, key, c)
		},
	})
}

func (s *CenterService) SyncAccounts(ctx context.Context, centerID int64) (models.CenterAccounts, error) {
	accounts, err := routing.Remote(ctx, s.r, "sync_accounts", func(ctx context.Context) (models.CenterAccounts, error) {
		return s.api.CenterAccounts(ctx, centerID)
	})
	if err != nil {
		return models.CenterAccounts{}, err
	}
	if err := s.accounts.Put(ctx, store.IDKey(centerID), accounts); err != nil {
		return models.CenterAccounts{}, err
	}
	return accounts, nil
}

func (s *CenterService) Create(ctx context.Context, p models.CenterPayload) (models.SaveResponse, error) {
	return routing.Create(ctx, s.r, "create", p, routing.CreateOp[models.CenterPayload, models.SaveResponse]{
		Remote: func(ctx context.Context, p models.CenterPayload) (models.SaveResponse, error) {
			return s.api.CreateCenter(ctx, p, "")
		},
		Queue: s.queue,
		Saved: pendingSaved[models.CenterPayload],
	})
}

func (s *CenterService) PendingPayloads(ctx context.Context) ([]models.PendingRecord[models.CenterPayload], error) {
	return s.queue.ReadPendingAll(ctx)
}

func (s *CenterService) UpdatePending(ctx context.Context, localID int64, p models.CenterPayload) (models.PendingRecord[models.CenterPayload], error) {
	return s.queue.UpdatePending(ctx, localID, p)
}

func (s *CenterService) DeleteAndReloadPending(ctx context.Context, localID int64) ([]models.PendingRecord[models.CenterPayload], error) {
	return s.queue.DeletePendingAndReload(ctx, localID)
}

// GroupsAndMeeting returns the collection sheet view of a center.
func (s *CenterService) GroupsAndMeeting(ctx context.Context, centerID int64) (models.CenterWithAssociations, error) {
	return routing.Remote(ctx, s.r, "groups_and_meeting", func(ctx context.Context) (models.CenterWithAssociations, error) {
		return s.api.CenterGroupsAndMeeting(ctx, centerID)
	})
}

func (s *CenterService) Activate(ctx context.Context, centerID int64, p models.ActivatePayload) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "activate", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.ActivateCenter(ctx, centerID, p)
	})
}
