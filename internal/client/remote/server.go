package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// GatewayCallMethod is the full name of the single tunnel method.
const GatewayCallMethod = "/fieldsync.v1.Gateway/Call"

// GatewayServer serves tunnelled requests.
type GatewayServer interface {
	Call(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// GatewayServerFunc adapts a function to GatewayServer.
type GatewayServerFunc func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func (f GatewayServerFunc) Call(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return f(ctx, in)
}

func _Gateway_Call_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GatewayCallMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GatewayServer).Call(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GatewayServiceDesc describes the fieldsync.v1.Gateway service.
var GatewayServiceDesc = grpc.ServiceDesc{
	ServiceName: "fieldsync.v1.Gateway",
	HandlerType: (*GatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Call",
			Handler:    _Gateway_Call_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fieldsync/v1/gateway.proto",
}

func RegisterGatewayServer(s grpc.ServiceRegistrar, srv GatewayServer) {
	s.RegisterService(&GatewayServiceDesc, srv)
}

// Proxy is a GatewayServer that forwards every envelope to next.
type Proxy struct {
	next Transport
	log  logging.Logger
}

var _ GatewayServer = (*Proxy)(nil)

func NewProxy(next Transport, log logging.Logger) *Proxy {
	return &Proxy{next: next, log: log}
}

func (p *Proxy) Call(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if req.Method == pingMethod {
		if err := p.next.Ping(ctx); err != nil {
			return nil, p.toStatus(ctx, req, err)
		}
		return encodeResponse(http.StatusOK, nil, "")
	}

	var raw json.RawMessage
	if err := p.next.Do(ctx, req, &raw); err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.StatusCode != 0 {
			return encodeResponse(te.StatusCode, nil, te.Message)
		}
		return nil, p.toStatus(ctx, req, err)
	}

	resp, err := encodeResponse(http.StatusOK, raw, "")
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (p *Proxy) toStatus(ctx context.Context, req Request, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	p.log.Warn(ctx, "proxied call failed", "method", req.Method, "path", req.Path, "error", err)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
