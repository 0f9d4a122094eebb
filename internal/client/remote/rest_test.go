package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const (
	testHost = "http://fineract.test"
	testBase = testHost + "/fineract-provider/api/v1"
)

func newRESTGateway(t *testing.T) *Gateway {
	t.Helper()
	tr, err := NewRESTTransport(testBase, WithTenant("default"), WithAccessToken("dG9rZW4="))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return NewGateway(tr)
}

func TestNewRESTTransport_RejectsBadURL(t *testing.T) {
	_, err := NewRESTTransport("ftp://example.com")
	require.Error(t, err)

	_, err = NewRESTTransport("://")
	require.Error(t, err)
}

func TestREST_ListClients_SendsPagingAndHeaders(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/fineract-provider/api/v1/clients").
		MatchParam("paged", "true").
		MatchParam("offset", "20").
		MatchParam("limit", "10").
		MatchHeader(common.TenantHeaderName, "default").
		MatchHeader("Authorization", "Basic dG9rZW4=").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"totalFilteredRecords": 31,
			"pageItems": []map[string]any{
				{"id": 21, "displayName": "Ann Lee", "officeId": 1},
			},
		})

	g := newRESTGateway(t)
	page, err := g.ListClients(context.Background(), true, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 31, page.TotalFilteredRecords)
	require.Len(t, page.PageItems, 1)
	assert.Equal(t, int64(21), page.PageItems[0].ID)
	assert.Equal(t, "Ann Lee", page.PageItems[0].DisplayName)
	assert.True(t, gock.IsDone())
}

func TestREST_CreateClient_SendsIdempotencyKey(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Post("/fineract-provider/api/v1/clients").
		MatchHeader(common.IdempotencyKeyHeaderName, "key-1").
		MatchType("json").
		JSON(map[string]any{"officeId": 1, "firstname": "Ann", "lastname": "Lee", "active": false}).
		Reply(http.StatusOK).
		JSON(map[string]any{"officeId": 1, "clientId": 7, "resourceId": 7})

	g := newRESTGateway(t)
	resp, err := g.CreateClient(context.Background(),
		models.ClientPayload{OfficeID: 1, Firstname: "Ann", Lastname: "Lee"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, models.SaveResponse{OfficeID: 1, ClientID: 7, ResourceID: 7}, resp)
	assert.True(t, gock.IsDone())
}

func TestREST_ActivateCenter_UsesCommand(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Post("/fineract-provider/api/v1/centers/3").
		MatchParam("command", "activate").
		Reply(http.StatusOK).
		JSON(map[string]any{"resourceId": 3})

	g := newRESTGateway(t)
	resp, err := g.ActivateCenter(context.Background(), 3,
		models.ActivatePayload{ActivationDate: "01 March 2026", DateFormat: "dd MMMM yyyy", Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ResourceID)
}

// imagePart matches a multipart body whose "file" part carries the given
// name, content type and bytes.
func imagePart(name, contentType string, data []byte) gock.MatchFunc {
	return func(req *http.Request, _ *gock.Request) (bool, error) {
		_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil {
			return false, err
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		part, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).NextPart()
		if err != nil {
			return false, err
		}
		got, err := io.ReadAll(part)
		if err != nil {
			return false, err
		}
		return part.FormName() == "file" &&
			part.FileName() == name &&
			part.Header.Get("Content-Type") == contentType &&
			bytes.Equal(got, data), nil
	}
}

func TestREST_UploadClientImage_IsMultipart(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Post("/fineract-provider/api/v1/clients/5/images").
		MatchHeader("Content-Type", "^multipart/form-data; boundary=").
		AddMatcher(imagePart("face.png", "image/png", []byte{0x89, 'P', 'N', 'G'})).
		Reply(http.StatusOK)

	g := newRESTGateway(t)
	err := g.UploadClientImage(context.Background(), 5,
		models.Image{FileName: "face.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestREST_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
		kind   ErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, target: ErrUnauthorized, kind: KindUnauthorized},
		{name: "unavailable", status: http.StatusServiceUnavailable, target: ErrUnavailable, kind: KindUnavailable},
		{name: "not found", status: http.StatusNotFound, target: ErrTransport, kind: KindStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testHost).
				Get("/fineract-provider/api/v1/offices").
				Reply(tt.status).
				BodyString(`{"defaultUserMessage":"nope"}`)

			g := newRESTGateway(t)
			_, err := g.ListOffices(context.Background())
			require.ErrorIs(t, err, tt.target)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.kind, te.Kind)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Contains(t, te.Message, "nope")
		})
	}
}

func TestREST_NetworkFailureIsUnavailable(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/fineract-provider/api/v1/surveys").
		ReplyError(errors.New("connection refused"))

	g := newRESTGateway(t)
	_, err := g.ListSurveys(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestREST_DecodeFailure(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/fineract-provider/api/v1/clients/1").
		Reply(http.StatusOK).
		BodyString(`{"id": "not a number"`)

	g := newRESTGateway(t)
	_, err := g.GetClient(context.Background(), 1)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindDecode, te.Kind)
}

func TestREST_CancelledContextReturnsCtxErr(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/fineract-provider/api/v1/offices").
		Reply(http.StatusOK).
		JSON([]map[string]any{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newRESTGateway(t)
	_, err := g.ListOffices(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestREST_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		defer gock.Off()
		gock.New(testHost).Get("/fineract-provider/api/v1").Reply(http.StatusUnauthorized)

		require.NoError(t, newRESTGateway(t).Ping(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		defer gock.Off()
		gock.New(testHost).Get("/fineract-provider/api/v1").Reply(http.StatusBadGateway)

		require.ErrorIs(t, newRESTGateway(t).Ping(context.Background()), ErrUnavailable)
	})

	t.Run("refused", func(t *testing.T) {
		defer gock.Off()
		gock.New(testHost).Get("/fineract-provider/api/v1").ReplyError(errors.New("dial tcp: refused"))

		require.ErrorIs(t, newRESTGateway(t).Ping(context.Background()), ErrUnavailable)
	})
}

func TestREST_ClientIdentifiers(t *testing.T) {
	defer gock.Off()

	gock.New(testHost).
		Get("/fineract-provider/api/v1/clients/7/identifiers").
		Reply(http.StatusOK).
		JSON([]map[string]any{{"id": 3, "clientId": 7, "documentKey": "AB123", "documentType": map[string]any{"id": 1, "name": "Passport"}}})
	gock.New(testHost).
		Get("/fineract-provider/api/v1/clients/7/identifiers/template").
		Reply(http.StatusOK).
		JSON(map[string]any{"allowedDocumentTypes": []map[string]any{{"id": 1, "name": "Passport"}}})
	gock.New(testHost).
		Post("/fineract-provider/api/v1/clients/7/identifiers").
		MatchType("json").
		JSON(map[string]any{"documentTypeId": 1, "status": "Active", "documentKey": "CD456"}).
		Reply(http.StatusOK).
		JSON(map[string]any{"officeId": 1, "clientId": 7, "resourceId": 4})
	gock.New(testHost).
		Delete("/fineract-provider/api/v1/clients/7/identifiers/3").
		Reply(http.StatusOK).
		JSON(map[string]any{"resourceId": 3})

	g := newRESTGateway(t)
	ctx := context.Background()

	ids, err := g.ClientIdentifiers(ctx, 7)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "AB123", ids[0].DocumentKey)
	assert.Equal(t, "Passport", ids[0].DocumentType.Name)

	tpl, err := g.ClientIdentifierTemplate(ctx, 7)
	require.NoError(t, err)
	require.Len(t, tpl.AllowedDocumentTypes, 1)

	created, err := g.CreateClientIdentifier(ctx, 7, models.IdentifierPayload{DocumentTypeID: 1, Status: "Active", DocumentKey: "CD456"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ResourceID)

	deleted, err := g.DeleteClientIdentifier(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted.ResourceID)

	assert.True(t, gock.IsDone())
}

func TestREST_ClientPinpointLocations(t *testing.T) {
	defer gock.Off()

	loc := models.ClientAddressRequest{PlaceID: "p1", PlaceAddress: "Main St 1", Latitude: 56.95, Longitude: 24.1}

	gock.New(testHost).
		Get("/fineract-provider/api/v1/datatables/client_pinpoint_location/7").
		Reply(http.StatusOK).
		JSON([]map[string]any{{"id": 2, "clientId": 7, "placeId": "p1", "placeAddress": "Main St 1"}})
	gock.New(testHost).
		Post("/fineract-provider/api/v1/datatables/client_pinpoint_location/7").
		MatchType("json").
		Reply(http.StatusOK).
		JSON(map[string]any{"resourceId": 7})
	gock.New(testHost).
		Put("/fineract-provider/api/v1/datatables/client_pinpoint_location/7/2").
		Reply(http.StatusOK).
		JSON(map[string]any{"resourceId": 7, "changes": map[string]any{"placeAddress": "Main St 1"}})
	gock.New(testHost).
		Delete("/fineract-provider/api/v1/datatables/client_pinpoint_location/7/2").
		Reply(http.StatusOK).
		JSON(map[string]any{"resourceId": 7})
	gock.New(testHost).
		Delete("/fineract-provider/api/v1/clients/7/images").
		Reply(http.StatusOK)

	g := newRESTGateway(t)
	ctx := context.Background()

	locs, err := g.ClientPinpointLocations(ctx, 7)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, int64(2), locs[0].ID)

	_, err = g.AddClientPinpointLocation(ctx, 7, loc)
	require.NoError(t, err)

	upd, err := g.UpdateClientPinpointLocation(ctx, 7, 2, loc)
	require.NoError(t, err)
	assert.Contains(t, upd.Changes, "placeAddress")

	_, err = g.DeleteClientPinpointLocation(ctx, 7, 2)
	require.NoError(t, err)

	require.NoError(t, g.DeleteClientImage(ctx, 7))
	assert.True(t, gock.IsDone())
}
