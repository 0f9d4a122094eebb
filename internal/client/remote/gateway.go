package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

type ClientsAPI interface {
	ListClients(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Client], error)
	GetClient(ctx context.Context, id int64) (models.Client, error)
	ClientAccounts(ctx context.Context, id int64) (models.ClientAccounts, error)
	ClientsTemplate(ctx context.Context) (models.ClientsTemplate, error)
	CreateClient(ctx context.Context, p models.ClientPayload, idempotencyKey string) (models.SaveResponse, error)
	ActivateClient(ctx context.Context, id int64, p models.ActivatePayload) (models.GenericResponse, error)

	ClientIdentifiers(ctx context.Context, clientID int64) ([]models.Identifier, error)
	CreateClientIdentifier(ctx context.Context, clientID int64, p models.IdentifierPayload) (models.IdentifierCreationResponse, error)
	ClientIdentifierTemplate(ctx context.Context, clientID int64) (models.IdentifierTemplate, error)
	DeleteClientIdentifier(ctx context.Context, clientID, identifierID int64) (models.GenericResponse, error)

	ClientPinpointLocations(ctx context.Context, clientID int64) ([]models.ClientAddressResponse, error)
	AddClientPinpointLocation(ctx context.Context, clientID int64, a models.ClientAddressRequest) (models.GenericResponse, error)
	UpdateClientPinpointLocation(ctx context.Context, apptableID, datatableID int64, a models.ClientAddressRequest) (models.GenericResponse, error)
	DeleteClientPinpointLocation(ctx context.Context, apptableID, datatableID int64) (models.GenericResponse, error)

	UploadClientImage(ctx context.Context, clientID int64, img models.Image) error
	DeleteClientImage(ctx context.Context, clientID int64) error
}

type CentersAPI interface {
	ListCenters(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Center], error)
	CenterAccounts(ctx context.Context, id int64) (models.CenterAccounts, error)
	CenterWithAssociations(ctx context.Context, id int64) (models.CenterWithAssociations, error)
	CenterGroupsAndMeeting(ctx context.Context, id int64) (models.CenterWithAssociations, error)
	CreateCenter(ctx context.Context, p models.CenterPayload, idempotencyKey string) (models.SaveResponse, error)
	ActivateCenter(ctx context.Context, id int64, p models.ActivatePayload) (models.GenericResponse, error)
}

type OfficesAPI interface {
	ListOffices(ctx context.Context) ([]models.Office, error)
}

type SurveysAPI interface {
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	GetSurvey(ctx context.Context, id int64) (models.Survey, error)
	SubmitScore(ctx context.Context, surveyID int64, s models.Scorecard) (models.Scorecard, error)
}

// Pinger checks that the remote service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Gateway maps entity operations onto API requests.
type Gateway struct {
	t Transport
}

var (
	_ ClientsAPI = (*Gateway)(nil)
	_ CentersAPI = (*Gateway)(nil)
	_ OfficesAPI = (*Gateway)(nil)
	_ SurveysAPI = (*Gateway)(nil)
	_ Pinger     = (*Gateway)(nil)
)

func NewGateway(t Transport) *Gateway {
	return &Gateway{t: t}
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.t.Ping(ctx)
}

func (g *Gateway) Close() error {
	return g.t.Close()
}

func call[T any](ctx context.Context, t Transport, req Request) (T, error) {
	var out T
	if err := t.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func get(path string, q url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: q}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func pageQuery(paged bool, offset, limit int) url.Values {
	return url.Values{
		"paged":  {strconv.FormatBool(paged)},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
}

var activateQuery = url.Values{"command": {"activate"}}

// Clients

func (g *Gateway) ListClients(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Client], error) {
	return call[models.Page[models.Client]](ctx, g.t, get("clients", pageQuery(paged, offset, limit)))
}

func (g *Gateway) GetClient(ctx context.Context, clientID int64) (models.Client, error) {
	return call[models.Client](ctx, g.t, get("clients/"+id(clientID), nil))
}

func (g *Gateway) ClientAccounts(ctx context.Context, clientID int64) (models.ClientAccounts, error) {
	return call[models.ClientAccounts](ctx, g.t, get("clients/"+id(clientID)+"/accounts", nil))
}

func (g *Gateway) ClientsTemplate(ctx context.Context) (models.ClientsTemplate, error) {
	return call[models.ClientsTemplate](ctx, g.t, get("clients/template", nil))
}

func (g *Gateway) CreateClient(ctx context.Context, p models.ClientPayload, idempotencyKey string) (models.SaveResponse, error) {
	return call[models.SaveResponse](ctx, g.t, Request{
		Method:         http.MethodPost,
		Path:           "clients",
		Body:           p,
		IdempotencyKey: idempotencyKey,
	})
}

func (g *Gateway) ActivateClient(ctx context.Context, clientID int64, p models.ActivatePayload) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodPost,
		Path:   "clients/" + id(clientID),
		Query:  activateQuery,
		Body:   p,
	})
}

func (g *Gateway) ClientIdentifiers(ctx context.Context, clientID int64) ([]models.Identifier, error) {
	return call[[]models.Identifier](ctx, g.t, get("clients/"+id(clientID)+"/identifiers", nil))
}

func (g *Gateway) CreateClientIdentifier(ctx context.Context, clientID int64, p models.IdentifierPayload) (models.IdentifierCreationResponse, error) {
	return call[models.IdentifierCreationResponse](ctx, g.t, Request{
		Method: http.MethodPost,
		Path:   "clients/" + id(clientID) + "/identifiers",
		Body:   p,
	})
}

func (g *Gateway) ClientIdentifierTemplate(ctx context.Context, clientID int64) (models.IdentifierTemplate, error) {
	return call[models.IdentifierTemplate](ctx, g.t, get("clients/"+id(clientID)+"/identifiers/template", nil))
}

func (g *Gateway) DeleteClientIdentifier(ctx context.Context, clientID, identifierID int64) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodDelete,
		Path:   "clients/" + id(clientID) + "/identifiers/" + id(identifierID),
	})
}

const pinpointTable = "datatables/client_pinpoint_location/"

func (g *Gateway) ClientPinpointLocations(ctx context.Context, clientID int64) ([]models.ClientAddressResponse, error) {
	return call[[]models.ClientAddressResponse](ctx, g.t, get(pinpointTable+id(clientID), nil))
}

func (g *Gateway) AddClientPinpointLocation(ctx context.Context, clientID int64, a models.ClientAddressRequest) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodPost,
		Path:   pinpointTable + id(clientID),
		Body:   a,
	})
}

func (g *Gateway) UpdateClientPinpointLocation(ctx context.Context, apptableID, datatableID int64, a models.ClientAddressRequest) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodPut,
		Path:   pinpointTable + id(apptableID) + "/" + id(datatableID),
		Body:   a,
	})
}

func (g *Gateway) DeleteClientPinpointLocation(ctx context.Context, apptableID, datatableID int64) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodDelete,
		Path:   pinpointTable + id(apptableID) + "/" + id(datatableID),
	})
}

func (g *Gateway) UploadClientImage(ctx context.Context, clientID int64, img models.Image) error {
	return g.t.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "clients/" + id(clientID) + "/images",
		Upload: &img,
	}, nil)
}

func (g *Gateway) DeleteClientImage(ctx context.Context, clientID int64) error {
	return g.t.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "clients/" + id(clientID) + "/images",
	}, nil)
}

// Centers

func (g *Gateway) ListCenters(ctx context.Context, paged bool, offset, limit int) (models.Page[models.Center], error) {
	return call[models.Page[models.Center]](ctx, g.t, get("centers", pageQuery(paged, offset, limit)))
}

func (g *Gateway) CenterAccounts(ctx context.Context, centerID int64) (models.CenterAccounts, error) {
	return call[models.CenterAccounts](ctx, g.t, get("centers/"+id(centerID)+"/accounts", nil))
}

func (g *Gateway) CenterWithAssociations(ctx context.Context, centerID int64) (models.CenterWithAssociations, error) {
	return call[models.CenterWithAssociations](ctx, g.t,
		get("centers/"+id(centerID), url.Values{"associations": {"groupMembers"}}))
}

func (g *Gateway) CenterGroupsAndMeeting(ctx context.Context, centerID int64) (models.CenterWithAssociations, error) {
	return call[models.CenterWithAssociations](ctx, g.t,
		get("centers/"+id(centerID), url.Values{"associations": {"groupMembers,collectionMeetingCalendar"}}))
}

func (g *Gateway) CreateCenter(ctx context.Context, p models.CenterPayload, idempotencyKey string) (models.SaveResponse, error) {
	return call[models.SaveResponse](ctx, g.t, Request{
		Method:         http.MethodPost,
		Path:           "centers",
		Body:           p,
		IdempotencyKey: idempotencyKey,
	})
}

func (g *Gateway) ActivateCenter(ctx context.Context, centerID int64, p models.ActivatePayload) (models.GenericResponse, error) {
	return call[models.GenericResponse](ctx, g.t, Request{
		Method: http.MethodPost,
		Path:   "centers/" + id(centerID),
		Query:  activateQuery,
		Body:   p,
	})
}

// Offices

func (g *Gateway) ListOffices(ctx context.Context) ([]models.Office, error) {
	return call[[]models.Office](ctx, g.t, get("offices", nil))
}

// Surveys

func (g *Gateway) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	return call[[]models.Survey](ctx, g.t, get("surveys", nil))
}

func (g *Gateway) GetSurvey(ctx context.Context, surveyID int64) (models.Survey, error) {
	return call[models.Survey](ctx, g.t, get("surveys/"+id(surveyID), nil))
}

func (g *Gateway) SubmitScore(ctx context.Context, surveyID int64, s models.Scorecard) (models.Scorecard, error) {
	return call[models.Scorecard](ctx, g.t, Request{
		Method: http.MethodPost,
		Path:   "surveys/scorecards/" + id(surveyID),
		Body:   s,
	})
}

// New builds a Gateway over the transport named by kind ("rest" or "grpc").
func New(kind, addr string, opts ...Option) (*Gateway, error) {
	var (
		t   Transport
		err error
	)
	switch kind {
	case "grpc":
		t, err = NewGRPCTransport(addr, opts...)
	default:
		t, err = NewRESTTransport(addr, opts...)
	}
	if err != nil {
		return nil, err
	}
	return NewGateway(t), nil
}
