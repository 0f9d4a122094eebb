// Package server runs the fieldsync gateway relay: a gRPC endpoint that
// forwards every gateway call to the upstream REST API, so field devices can
// reach it over a single connection.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/server/config"

	gs "github.com/dmitrijs2005/fieldsync/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	upstream remote.Transport
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	upstream, err := remote.NewRESTTransport(c.UpstreamAddr,
		remote.WithTenant(c.UpstreamTenant),
		remote.WithAccessToken(c.UpstreamToken),
		remote.WithHTTPClient(&http.Client{Timeout: c.UpstreamTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, upstream: upstream}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	proxy := remote.NewProxy(app.upstream, app.logger.With("module", "proxy"))
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, proxy, app.config.AccessToken)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "upstream", app.config.UpstreamAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.upstream.Close(); err != nil {
		app.logger.Error(ctx, "error closing upstream", "err", err)
	}
}
