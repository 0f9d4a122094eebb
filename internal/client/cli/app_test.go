package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fieldsync/internal/client/config"
	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/client/store"
	"github.com/dmitrijs2005/fieldsync/internal/client/syncer"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

type fakeTransport struct {
	mu      sync.Mutex
	pingErr error
	clients []models.Client
	created []models.ClientPayload
	keys    []string
}

func (f *fakeTransport) Do(_ context.Context, req remote.Request, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var resp any
	switch req.Method + " " + req.Path {
	case http.MethodGet + " clients":
		resp = models.NewPage(f.clients)
	case http.MethodPost + " clients":
		f.created = append(f.created, req.Body.(models.ClientPayload))
		f.keys = append(f.keys, req.IdempotencyKey)
		id := int64(100 + len(f.created))
		resp = models.SaveResponse{OfficeID: 1, ClientID: id, ResourceID: id}
	case http.MethodGet + " offices":
		resp = []models.Office{{ID: 1, Name: "Head Office"}}
	default:
		return &remote.TransportError{Kind: remote.KindStatus, Op: req.Method + " " + req.Path, StatusCode: http.StatusNotFound}
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeTransport) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type appFixture struct {
	app   *App
	out   *bytes.Buffer
	ft    *fakeTransport
	repos *store.Repositories
}

func newTestApp(t *testing.T, initial connectivity.Mode, tune ...func(*config.Config)) *appFixture {
	t.Helper()
	repos, err := store.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)

	f := &appFixture{ft: &fakeTransport{}, repos: repos}
	f.app = f.reopen(t, initial, tune...)
	t.Cleanup(func() { _ = f.app.Close() })
	return f
}

// reopen builds another App over the same store, as a restart would.
func (f *appFixture) reopen(t *testing.T, initial connectivity.Mode, tune ...func(*config.Config)) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.InitialMode = string(initial)
	cfg.ProbeAttempts = 1
	for _, fn := range tune {
		fn(cfg)
	}

	a, err := newApp(context.Background(), cfg, logging.Nop(), nil, f.repos, remote.NewGateway(f.ft))
	require.NoError(t, err)
	f.out = &bytes.Buffer{}
	a.out = f.out
	return a
}

func (f *appFixture) input(s string) {
	f.app.reader = rdr(s)
}

func TestApp_OfflineCreateThenSync(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOffline)
	ctx := context.Background()

	f.input("Ann\nLee\n\n\n\n")
	require.NoError(t, f.app.AddClient(ctx))
	assert.Contains(t, f.out.String(), "client queued with local id 1")
	assert.Zero(t, f.ft.createdCount())

	require.NoError(t, f.app.ListPending(ctx))
	assert.Contains(t, f.out.String(), "client\t1\tAnn Lee")

	err := f.app.Sync(ctx, "all")
	require.ErrorIs(t, err, syncer.ErrNotOnline)
	assert.Contains(t, f.out.String(), "sync needs online mode")

	require.NoError(t, f.app.SetMode(ctx, "online"))
	f.out.Reset()
	require.NoError(t, f.app.Sync(ctx, "client"))
	assert.Contains(t, f.out.String(), "client: replayed 1, 0 remaining")

	require.Equal(t, 1, f.ft.createdCount())
	assert.NotEmpty(t, f.ft.keys[0])
	assert.Equal(t, "Ann", f.ft.created[0].Firstname)

	cached, err := f.app.clients.Cache().Get(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", cached.DisplayName)

	f.out.Reset()
	require.NoError(t, f.app.ListPending(ctx))
	assert.Contains(t, f.out.String(), "Nothing pending.")
	assert.Contains(t, f.out.String(), "client last synced")
	assert.NotContains(t, f.out.String(), "center last synced")
}

func TestApp_OnlineCreateGoesStraightToRemote(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOnline)
	ctx := context.Background()

	f.input("Ann\nLee\n\n\ny\n")
	require.NoError(t, f.app.AddClient(ctx))

	assert.Contains(t, f.out.String(), "client created with id 101")
	require.Equal(t, 1, f.ft.createdCount())
	assert.True(t, f.ft.created[0].Active)

	pending, err := f.app.clients.PendingPayloads(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApp_OnlineListIsServedFromCacheOffline(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOnline)
	ctx := context.Background()
	f.ft.clients = []models.Client{{ID: 7, DisplayName: "Ann Lee", OfficeName: "Head Office"}}

	require.NoError(t, f.app.ListClients(ctx, 0))
	assert.Contains(t, f.out.String(), "7\tAnn Lee\tHead Office")

	f.app.mirror.Wait()
	require.NoError(t, f.app.SetMode(ctx, "offline"))
	f.ft.clients = nil

	f.out.Reset()
	require.NoError(t, f.app.ListClients(ctx, 0))
	assert.Contains(t, f.out.String(), "7\tAnn Lee")

	f.out.Reset()
	require.NoError(t, f.app.ListClients(ctx, 100))
	assert.Contains(t, f.out.String(), "No clients.")
}

func TestApp_RemoteFailureIsReported(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOnline)

	err := f.app.ShowCenter(context.Background(), 3)
	require.Error(t, err)
	var te *remote.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Contains(t, f.out.String(), "error:")
}

func TestApp_ModePreferenceSurvivesRestart(t *testing.T) {
	f := newTestApp(t, connectivity.ModeUnknown)
	ctx := context.Background()

	require.NoError(t, f.app.SetMode(ctx, "offline"))
	assert.Equal(t, "(offline*)", f.app.getStatus())

	restarted := f.reopen(t, connectivity.ModeOnline)
	assert.Equal(t, connectivity.ModeOffline, restarted.sw.CurrentMode())
	assert.True(t, restarted.sw.Pinned())

	require.NoError(t, restarted.SetMode(ctx, "auto"))
	assert.False(t, restarted.sw.Pinned())

	again := f.reopen(t, connectivity.ModeUnknown)
	assert.Equal(t, connectivity.ModeUnknown, again.sw.CurrentMode())
	assert.False(t, again.sw.Pinned())

	require.Error(t, again.SetMode(ctx, "sideways"))
}

func TestApp_AutoSyncOnReconnect(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOffline, func(c *config.Config) { c.AutoSync = true })
	ctx := context.Background()

	f.input("Ann\nLee\n\n\n\n")
	require.NoError(t, f.app.AddClient(ctx))

	require.NoError(t, f.app.SetMode(ctx, "online"))
	f.app.coord.Wait()

	assert.Equal(t, 1, f.ft.createdCount())
	pending, err := f.app.clients.PendingPayloads(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApp_EditAndDropPending(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOffline)
	ctx := context.Background()

	f.input("Ann\nLee\n\n\n\n")
	require.NoError(t, f.app.AddClient(ctx))

	f.input("Bob\n\n\n\n\n")
	require.NoError(t, f.app.EditPending(ctx, models.EntityClient, 1))

	pending, err := f.app.clients.PendingPayloads(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].LocalID)
	assert.Equal(t, "Bob", pending[0].Payload.Firstname)
	assert.Equal(t, "Lee", pending[0].Payload.Lastname)

	require.Error(t, f.app.EditPending(ctx, models.EntityClient, 9))
	require.Error(t, f.app.EditPending(ctx, models.EntityOffice, 1))

	require.NoError(t, f.app.DropPending(ctx, models.EntityClient, 1))
	assert.Contains(t, f.out.String(), "pending client 1 dropped, 0 left")
}

func TestApp_WatcherProbeFlipsMode(t *testing.T) {
	f := newTestApp(t, connectivity.ModeUnknown)
	ctx := context.Background()

	assert.Equal(t, connectivity.ModeOnline, f.app.watcher.Probe(ctx))
	assert.Equal(t, "(online)", f.app.getStatus())

	f.ft.mu.Lock()
	f.ft.pingErr = errors.New("no route to host")
	f.ft.mu.Unlock()
	assert.Equal(t, connectivity.ModeOffline, f.app.watcher.Probe(ctx))
	assert.Equal(t, "(offline)", f.app.getStatus())
}

func TestApp_OfficesOnline(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOnline)

	require.NoError(t, f.app.ListOffices(context.Background()))
	assert.Contains(t, f.out.String(), "1\tHead Office")
}

func TestApp_CloseWaitsForRunningCommandAndRefusesLaterOnes(t *testing.T) {
	f := newTestApp(t, connectivity.ModeOffline)

	require.True(t, f.app.beginCommand())

	closed := make(chan error, 1)
	go func() { closed <- f.app.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while a command was running")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, f.app.ListPending(context.Background()))
	f.app.endCommand()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the command finished")
	}

	assert.False(t, f.app.beginCommand())

	capturePrintln(t)
	f.out.Reset()
	runREPL(context.Background(), f.app, f.app.getStatus,
		bufio.NewScanner(strings.NewReader("pending\n")))
	assert.Empty(t, f.out.String())
}

func TestApp_RootStopsWatcherBeforeClose(t *testing.T) {
	f := newTestApp(t, connectivity.ModeUnknown, func(c *config.Config) { c.OnlineCheckInterval = time.Millisecond })
	capturePrintln(t)
	f.input("exit\n")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.app.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after exit")
	}
	require.NoError(t, f.app.Close())
}
