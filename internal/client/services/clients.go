package services

import (
	"context"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
)

const templateKey = "default"

type ClientService struct {
	r        *routing.Router
	api      remote.ClientsAPI
	clients  store.EntityStore[models.Client]
	accounts store.DocumentStore[models.ClientAccounts]
	template store.DocumentStore[models.ClientsTemplate]
	queue    store.PendingQueue[models.ClientPayload]
}

func NewClientService(api remote.ClientsAPI, d Deps) *ClientService {
	return &ClientService{
		r:        d.router(models.EntityClient),
		api:      api,
		clients:  store.NewCollection[models.Client](d.Repos.Entities, models.EntityClient),
		accounts: store.NewDocuments[models.ClientAccounts](d.Repos.Documents, models.DocClientAccounts),
		template: store.NewDocuments[models.ClientsTemplate](d.Repos.Documents, models.DocClientTemplate),
		queue:    store.NewQueue[models.ClientPayload](d.Repos.Pending, models.EntityClient),
	}
}

// Cache is the local client collection.
func (s *ClientService) Cache() store.EntityStore[models.Client] { return s.clients }

// Queue is the pending client creations.
func (s *ClientService) Queue() store.PendingQueue[models.ClientPayload] { return s.queue }

// List returns one page of clients. Offline only the first page is served,
// holding every cached client.
func (s *ClientService) List(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Client], error) {
	return routing.ReadPage(ctx, s.r, "list", offset, routing.ReadOp[models.Page[models.Client]]{
		Remote: func(ctx context.Context) (models.Page[models.Client], error) {
			return s.api.ListClients(ctx, paged, offset, limit)
		},
		Local: s.clients.ReadAll,
		Mirror: func(ctx context.Context, p models.Page[models.Client]) error {
			return s.clients.UpsertMany(ctx, p.PageItems)
		},
	})
}

// DatabaseClients reads every cached client regardless of mode.
func (s *ClientService) DatabaseClients(ctx context.Context) (models.Page[models.Client], error) {
	return s.clients.ReadAll(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int64) (models.Client, error) {
	return routing.Read(ctx, s.r, "get", routing.ReadOp[models.Client]{
		Remote: func(ctx context.Context) (models.Client, error) { return s.api.GetClient(ctx, id) },
		Local:  func(ctx context.Context) (models.Client, error) { return s.clients.Get(ctx, id) },
		Mirror: s.clients.Upsert,
	})
}

// SaveToCache stores c locally and returns it.
func (s *ClientService) SaveToCache(ctx context.Context, c models.Client) (models.Client, error) {
	if err := s.clients.Upsert(ctx, c); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

func (s *ClientService) Accounts(ctx context.Context, clientID int64) (models.ClientAccounts, error) {
	key := store.IDKey(clientID)
	return routing.Read(ctx, s.r, "accounts", routing.ReadOp[models.ClientAccounts]{
		Remote: func(ctx context.Context) (models.ClientAccounts, error) { return s.api.ClientAccounts(ctx, clientID) },
		Local:  func(ctx context.Context) (models.ClientAccounts, error) { return s.accounts.Get(ctx, key) },
		Mirror: func(ctx context.Context, a models.ClientAccounts) error { return s.accounts.Put(ctx, key, a) },
	})
}

// SyncAccounts fetches the accounts remotely and stores them before
// returning. Both remote and storage errors are returned.
func (s *ClientService) SyncAccounts(ctx context.Context, clientID int64) (models.ClientAccounts, error) {
	accounts, err := routing.Remote(ctx, s.r, "sync_accounts", func(ctx context.Context) (models.ClientAccounts, error) {
		return s.api.ClientAccounts(ctx, clientID)
	})
	if err != nil {
		return models.ClientAccounts{}, err
	}
	if err := s.accounts.Put(ctx, store.IDKey(clientID), accounts); err != nil {
		return models.ClientAccounts{}, err
	}
	return accounts, nil
}

func (s *ClientService) Template(ctx context.Context) (models.ClientsTemplate, error) {
	return routing.Read(ctx, s.r, "template", routing.ReadOp[models.ClientsTemplate]{
		Remote: s.api.ClientsTemplate,
		Local:  func(ctx context.Context) (models.ClientsTemplate, error) { return s.template.Get(ctx, templateKey) },
		Mirror: func(ctx context.Context, t models.ClientsTemplate) error { return s.template.Put(ctx, templateKey, t) },
	})
}

// Create creates the client remotely or, offline, queues it. A queued
// result has Pending set and carries only LocalID.
func (s *ClientService) Create(ctx context.Context, p models.ClientPayload) (models.SaveResponse, error) {
	return routing.Create(ctx, s.r, "create", p, routing.CreateOp[models.ClientPayload, models.SaveResponse]{
		Remote: func(ctx context.Context, p models.ClientPayload) (models.SaveResponse, error) {
			return s.api.CreateClient(ctx, p, "")
		},
		Queue: s.queue,
		Saved: pendingSaved[models.ClientPayload],
	})
}

func (s *ClientService) PendingPayloads(ctx context.Context) ([]models.PendingRecord[models.ClientPayload], error) {
	return s.queue.ReadPendingAll(ctx)
}

func (s *ClientService) UpdatePending(ctx context.Context, localID int64, p models.ClientPayload) (models.PendingRecord[models.ClientPayload], error) {
	return s.queue.UpdatePending(ctx, localID, p)
}

func (s *ClientService) DeleteAndReloadPending(ctx context.Context, localID int64) ([]models.PendingRecord[models.ClientPayload], error) {
	return s.queue.DeletePendingAndReload(ctx, localID)
}

// Remote only.

func (s *ClientService) Activate(ctx context.Context, clientID int64, p models.ActivatePayload) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "activate", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.ActivateClient(ctx, clientID, p)
	})
}

func (s *ClientService) Identifiers(ctx context.Context, clientID int64) ([]models.Identifier, error) {
	return routing.Remote(ctx, s.r, "identifiers", func(ctx context.Context) ([]models.Identifier, error) {
		return s.api.ClientIdentifiers(ctx, clientID)
	})
}

func (s *ClientService) CreateIdentifier(ctx context.Context, clientID int64, p models.IdentifierPayload) (models.IdentifierCreationResponse, error) {
	return routing.Remote(ctx, s.r, "create_identifier", func(ctx context.Context) (models.IdentifierCreationResponse, error) {
		return s.api.CreateClientIdentifier(ctx, clientID, p)
	})
}

func (s *ClientService) IdentifierTemplate(ctx context.Context, clientID int64) (models.IdentifierTemplate, error) {
	return routing.Remote(ctx, s.r, "identifier_template", func(ctx context.Context) (models.IdentifierTemplate, error) {
		return s.api.ClientIdentifierTemplate(ctx, clientID)
	})
}

func (s *ClientService) DeleteIdentifier(ctx context.Context, clientID, identifierID int64) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "delete_identifier", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.DeleteClientIdentifier(ctx, clientID, identifierID)
	})
}

func (s *ClientService) PinpointLocations(ctx context.Context, clientID int64) ([]models.ClientAddressResponse, error) {
	return routing.Remote(ctx, s.r, "pinpoint_locations", func(ctx context.Context) ([]models.ClientAddressResponse, error) {
		return s.api.ClientPinpointLocations(ctx, clientID)
	})
}

func (s *ClientService) AddPinpointLocation(ctx context.Context, clientID int64, a models.ClientAddressRequest) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "add_pinpoint_location", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.AddClientPinpointLocation(ctx, clientID, a)
	})
}

func (s *ClientService) UpdatePinpointLocation(ctx context.Context, apptableID, datatableID int64, a models.ClientAddressRequest) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "update_pinpoint_location", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.UpdateClientPinpointLocation(ctx, apptableID, datatableID, a)
	})
}

func (s *ClientService) DeletePinpointLocation(ctx context.Context, apptableID, datatableID int64) (models.GenericResponse, error) {
	return routing.Remote(ctx, s.r, "delete_pinpoint_location", func(ctx context.Context) (models.GenericResponse, error) {
		return s.api.DeleteClientPinpointLocation(ctx, apptableID, datatableID)
	})
}

func (s *ClientService) UploadImage(ctx context.Context, clientID int64, img models.Image) error {
	_, err := routing.Remote(ctx, s.r, "upload_image", func(ctx context.Context) (none, error) {
		return none{}, s.api.UploadClientImage(ctx, clientID, img)
	})
	return err
}

func (s *ClientService) DeleteImage(ctx context.Context, clientID int64) error {
	_, err := routing.Remote(ctx, s.r, "delete_image", func(ctx context.Context) (none, error) {
		return none{}, s.api.DeleteClientImage(ctx, clientID)
	})
	return err
}
