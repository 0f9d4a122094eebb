// Package grpc serves the fieldsync gateway service: the generic Call method
// that lets clients reach the REST API through a single gRPC endpoint.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

type GRPCServer struct {
	address     string
	gateway     remote.GatewayServer
	logger      logging.Logger
	accessToken string
}

// NewGRPCServer returns a server for gw on address a. A non-empty
// accessToken must be presented by every caller.
func NewGRPCServer(a string, l logging.Logger, gw remote.GatewayServer, accessToken string) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		gateway:     gw,
		accessToken: accessToken,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	remote.RegisterGatewayServer(srv, s.gateway)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
