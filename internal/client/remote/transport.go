package remote

import (
	"context"
	"net/http"
	"net/url"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// Request is one call against the remote API. Path is relative to the API
// root, e.g. "clients/42/accounts".
type Request struct {
	Method         string
	Path           string
	Query          url.Values
	Body           any
	IdempotencyKey string
	Upload         *models.Image
}

func (r Request) op() string {
	return r.Method + " " + r.Path
}

// Transport carries Requests to the remote service and decodes the JSON
// response into out when out is non-nil.
type Transport interface {
	Do(ctx context.Context, req Request, out any) error
	Ping(ctx context.Context) error
	Close() error
}

type options struct {
	tenant      string
	accessToken string
	httpClient  *http.Client
	dialOptions []grpc.DialOption
}

// Option configures a transport.
type Option func(*options)

func WithTenant(tenant string) Option {
	return func(o *options) { o.tenant = tenant }
}

func WithAccessToken(token string) Option {
	return func(o *options) { o.accessToken = token }
}

// WithHTTPClient replaces the client used by RESTTransport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
