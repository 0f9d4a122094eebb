package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/fieldsync/internal/client/config"
	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/routing"
	"github.com/dmitrijs2005/fieldsync/internal/client/services"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/client/syncer"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/metrics"
)

// App wires the connectivity switch, the local cache, the remote gateway and
// the entity services behind the interactive REPL.
type App struct {
	cfg *config.Config
	log logging.Logger

	repos   *store.Repositories
	gateway *remote.Gateway

	sw      *connectivity.Switch
	pref    *connectivity.Preference
	watcher *connectivity.Watcher
	mirror  *routing.Mirror
	coord   *syncer.Coordinator
	journal *syncer.Journal

	clients *services.ClientService
	centers *services.CenterService
	offices *services.OfficeService
	surveys *services.SurveyService

	reader *bufio.Reader
	out    io.Writer

	// busy is held while a REPL command runs; closed is set under it.
	busy       sync.Mutex
	closed     bool
	background sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// NewApp opens the configured store and transport and assembles the App.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, reg prometheus.Registerer) (*App, error) {
	repos, err := store.Open(ctx, cfg.StoreBackend, cfg.DatabasePath, log)
	if err != nil {
		log.Error(ctx, "error initializing local store", "backend", cfg.StoreBackend, "err", err)
		return nil, err
	}

	token := cfg.AccessToken
	if token == "" && isTerminal(int(os.Stdin.Fd())) {
		b, err := GetSecret("Enter access token (empty to skip)", os.Stdout)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		token = strings.TrimSpace(string(b))
	}

	gw, err := remote.New(cfg.Transport, cfg.ServerEndpointAddr,
		remote.WithTenant(cfg.Tenant),
		remote.WithAccessToken(token),
	)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a, err := newApp(ctx, cfg, log, metrics.New(reg), repos, gw)
	if err != nil {
		_ = gw.Close()
		_ = repos.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, log logging.Logger, m *metrics.Metrics, repos *store.Repositories, gw *remote.Gateway) (*App, error) {
	initial, err := connectivity.ParseMode(cfg.InitialMode)
	if err != nil {
		return nil, err
	}

	sw := connectivity.NewSwitch(initial, log, m)
	pref := connectivity.NewPreference(repos.Metadata)
	if restored, err := pref.Restore(ctx, sw); err != nil {
		log.Warn(ctx, "could not restore saved connectivity mode", "err", err)
	} else if restored {
		log.Info(ctx, "restored saved connectivity mode", "mode", sw.CurrentMode())
	}

	mirror := routing.NewMirror(cfg.MirrorTimeout, log, m)
	d := services.Deps{Mode: sw, Mirror: mirror, Repos: repos, Log: log, Metrics: m}

	a := &App{
		cfg:     cfg,
		log:     log,
		repos:   repos,
		gateway: gw,
		sw:      sw,
		pref:    pref,
		mirror:  mirror,
		clients: services.NewClientService(gw, d),
		centers: services.NewCenterService(gw, d),
		offices: services.NewOfficeService(gw, d),
		surveys: services.NewSurveyService(gw, d),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	a.coord = syncer.New(sw, log, m)
	a.journal = syncer.NewJournal(repos.Metadata)
	a.coord.UseJournal(a.journal)
	syncer.Register(a.coord, syncer.Binding[models.ClientPayload, models.Client]{
		Entity:   models.EntityClient,
		Queue:    a.clients.Queue(),
		Create:   gw.CreateClient,
		Cache:    a.clients.Cache(),
		ToEntity: models.ClientPayload.ToEntity,
	})
	syncer.Register(a.coord, syncer.Binding[models.CenterPayload, models.Center]{
		Entity:   models.EntityCenter,
		Queue:    a.centers.Queue(),
		Create:   gw.CreateCenter,
		Cache:    a.centers.Cache(),
		ToEntity: models.CenterPayload.ToEntity,
	})
	if cfg.AutoSync {
		sw.OnChange(a.coord.HandleModeChange)
	}

	a.watcher = connectivity.NewWatcher(gw, sw, connectivity.WatcherOptions{
		Interval: cfg.OnlineCheckInterval,
		Attempts: uint(cfg.ProbeAttempts),
	}, log)

	return a, nil
}

// Run probes connectivity once, keeps the watcher running in the background
// and blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "error closing app", "err", err)
		}
	}()
	a.Root(ctx)
}

// Close waits for the running command, the watcher, background cache writes
// and replays, then releases the transport and the store. Commands issued
// after Close are not run. Only the first call does any work.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.busy.Lock()
		a.closed = true
		a.busy.Unlock()

		a.background.Wait()
		a.mirror.Wait()
		a.coord.Wait()
		a.closeErr = errors.Join(a.gateway.Close(), a.repos.Close())
	})
	return a.closeErr
}

func (a *App) beginCommand() bool {
	a.busy.Lock()
	if a.closed {
		a.busy.Unlock()
		return false
	}
	return true
}

func (a *App) endCommand() {
	a.busy.Unlock()
}

// StartOnlineStatusWatcher blocks, probing the remote service every
// configured interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context) {
	a.watcher.Run(ctx)
}

func (a *App) getStatus() string {
	mode := a.sw.CurrentMode().String()
	if a.sw.Pinned() {
		mode += "*"
	}
	return "(" + mode + ")"
}
