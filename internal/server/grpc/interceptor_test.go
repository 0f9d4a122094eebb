package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

func newTestServer(token string) *GRPCServer {
	return NewGRPCServer("", logging.Nop(), nil, token)
}

var callInfo = &grpc.UnaryServerInfo{FullMethod: remote.GatewayCallMethod}

func withToken(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func okHandler(called *bool) grpc.UnaryHandler {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		*called = true
		return "ok", nil
	}
}

func TestInterceptor_OtherMethodAllowedWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	var called bool
	resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/OtherMethod"}, okHandler(&called))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_NoTokenConfiguredAllowsAll(t *testing.T) {
	s := newTestServer("")

	var called bool
	_, err := s.accessTokenInterceptor(context.Background(), nil, callInfo, okHandler(&called))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestInterceptor_Call_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	var called bool
	_, err := s.accessTokenInterceptor(context.Background(), nil, callInfo, okHandler(&called))
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing token", status.Convert(err).Message())
}

func TestInterceptor_Call_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	var called bool
	_, err := s.accessTokenInterceptor(withToken("guess"), nil, callInfo, okHandler(&called))
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_Call_ValidToken(t *testing.T) {
	s := newTestServer("secret")

	var called bool
	resp, err := s.accessTokenInterceptor(withToken("secret"), nil, callInfo, okHandler(&called))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer("")

	boom := status.Error(codes.Internal, "boom")
	_, err := s.loggingInterceptor(context.Background(), nil, callInfo, func(context.Context, interface{}) (interface{}, error) {
		return nil, boom
	})
	assert.Equal(t, boom, err)
}
