package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// GRPCTransport tunnels Requests through the Gateway/Call method.
type GRPCTransport struct {
	conn   *grpc.ClientConn
	tenant string
	token  string
}

var _ Transport = (*GRPCTransport)(nil)

// WithDialOptions appends dial options for GRPCTransport.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}

func NewGRPCTransport(target string, opts ...Option) (*GRPCTransport, error) {
	o := buildOptions(opts)
	t := &GRPCTransport{tenant: o.tenant, token: o.accessToken}

	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(t.metadataInterceptor),
	}, o.dialOptions...)

	conn, err := grpc.NewClient(target, dial...)
	if err != nil {
		return nil, err
	}
	t.conn = conn
	return t, nil
}

func withHeader(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

func (t *GRPCTransport) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t.token != "" {
		ctx = withHeader(ctx, common.AccessTokenHeaderName, t.token)
	}
	if t.tenant != "" {
		ctx = withHeader(ctx, strings.ToLower(common.TenantHeaderName), t.tenant)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (t *GRPCTransport) Do(ctx context.Context, req Request, out any) error {
	op := req.op()

	env, err := encodeRequest(req)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Op: op, Err: err}
	}
	if req.IdempotencyKey != "" {
		ctx = withHeader(ctx, strings.ToLower(common.IdempotencyKeyHeaderName), req.IdempotencyKey)
	}

	resp := new(structpb.Struct)
	if err := t.conn.Invoke(ctx, GatewayCallMethod, env, resp); err != nil {
		return mapError(ctx, op, err)
	}

	f := resp.GetFields()
	code := int(f[fieldStatus].GetNumberValue())
	if code >= http.StatusBadRequest {
		return statusError(op, code, []byte(f[fieldMessage].GetStringValue()))
	}

	body := bodyOf(f)
	if out == nil || body == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Kind: KindDecode, Op: op, StatusCode: code, Err: err}
	}
	return nil
}

func (t *GRPCTransport) Ping(ctx context.Context) error {
	resp := new(structpb.Struct)
	env := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldMethod: structpb.NewStringValue(pingMethod),
	}}
	if err := t.conn.Invoke(ctx, GatewayCallMethod, env, resp); err != nil {
		return mapError(ctx, "ping", err)
	}
	if code := int(resp.GetFields()[fieldStatus].GetNumberValue()); code >= http.StatusInternalServerError {
		return &TransportError{Kind: KindUnavailable, Op: "ping", StatusCode: code}
	}
	return nil
}

func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}

func mapError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	kind := KindUnknown
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		kind = KindUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		kind = KindUnavailable
	}
	return &TransportError{Kind: kind, Op: op, Err: err}
}
