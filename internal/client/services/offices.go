package services

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
)

type OfficeService struct {
	r       *routing.Router
	api     remote.OfficesAPI
	offices store.EntityStore[models.Office]
}

func NewOfficeService(api remote.OfficesAPI, d Deps) *OfficeService {
	return &OfficeService{
		r:       d.router(models.EntityOffice),
		api:     api,
		offices: store.NewCollection[models.Office](d.Repos.Entities, models.EntityOffice),
	}
}

func (s *OfficeService) List(ctx context.Context) ([]models.Office, error) {
	return routing.Read(ctx, s.r, "list", routing.ReadOp[[]models.Office]{
		Remote: s.api.ListOffices,
		Local:  s.DatabaseOffices,
		Mirror: s.offices.UpsertMany,
	})
}

func (s *OfficeService) DatabaseOffices(ctx context.Context) ([]models.Office, error) {
	page, err := s.offices.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return page.PageItems, nil
}
