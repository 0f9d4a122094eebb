package services

import (
	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Mode    connectivity.Source
	Mirror  *routing.Mirror
	Repos   *store.Repositories
	Log     logging.Logger
	Metrics *metrics.Metrics
}

func (d Deps) router(t models.EntityType) *routing.Router {
	return routing.NewRouter(t, d.Mode, d.Mirror, d.Log, d.Metrics)
}

func pendingSaved[P any](rec models.PendingRecord[P]) models.SaveResponse {
	return models.SaveResponse{LocalID: rec.LocalID, Pending: true}
}

type none struct{}
