package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

type backend struct {
	name string
	open func(t *testing.T) *Repositories
}

func backends() []backend {
	return []backend{
		{name: "sqlite", open: func(t *testing.T) *Repositories {
			repos, err := InitDatabase(context.Background(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = repos.Close() })
			return repos
		}},
		{name: "pebble", open: func(t *testing.T) *Repositories {
			repos, err := OpenPebble(t.TempDir(), logging.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = repos.Close() })
			return repos
		}},
	}
}

func localIDs[P any](recs []models.PendingRecord[P]) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.LocalID)
	}
	return out
}

func TestCollection_ReadAllAndPage(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repos := b.open(t)
			ctx := context.Background()
			clients := NewCollection[models.Client](repos.Entities, models.EntityClient)

			empty, err := clients.ReadAll(ctx)
			require.NoError(t, err)
			assert.True(t, empty.IsEmpty())

			require.NoError(t, clients.UpsertMany(ctx, []models.Client{
				{ID: 3, DisplayName: "c"}, {ID: 1, DisplayName: "a"}, {ID: 2, DisplayName: "b"},
			}))
			require.NoError(t, clients.Upsert(ctx, models.Client{ID: 2, DisplayName: "b2"}))

			all, err := clients.ReadAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, all.TotalFilteredRecords)
			require.Len(t, all.PageItems, 3)
			assert.Equal(t, "b2", all.PageItems[1].DisplayName)

			page, err := clients.ReadPage(ctx, 1, 1)
			require.NoError(t, err)
			assert.Equal(t, 3, page.TotalFilteredRecords)
			require.Len(t, page.PageItems, 1)
			assert.Equal(t, int64(2), page.PageItems[0].ID)

			beyond, err := clients.ReadPage(ctx, 10, 5)
			require.NoError(t, err)
			assert.True(t, beyond.IsEmpty())

			one, err := clients.Get(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, "c", one.DisplayName)

			_, err = clients.Get(ctx, 42)
			require.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestQueue_AppendAssignsDistinctIDs(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repos := b.open(t)
			ctx := context.Background()
			q := NewQueue[models.ClientPayload](repos.Pending, models.EntityClient)

			seen := map[int64]bool{}
			keys := map[string]bool{}
			for i := 0; i < 5; i++ {
				rec, err := q.AppendPending(ctx, models.ClientPayload{Firstname: "n", OfficeID: int64(i)})
				require.NoError(t, err)
				assert.False(t, seen[rec.LocalID])
				assert.False(t, keys[rec.IdempotencyKey])
				assert.NotEmpty(t, rec.IdempotencyKey)
				assert.Equal(t, models.EntityClient, rec.EntityType)
				seen[rec.LocalID] = true
				keys[rec.IdempotencyKey] = true
			}

			recs, err := q.ReadPendingAll(ctx)
			require.NoError(t, err)
			require.Len(t, recs, 5)
			for i := 1; i < len(recs); i++ {
				assert.Less(t, recs[i-1].LocalID, recs[i].LocalID, "oldest first")
			}
			assert.Equal(t, int64(0), recs[0].Payload.OfficeID)
		})
	}
}

func TestQueue_UpdatePendingPreservesIdentity(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repos := b.open(t)
			ctx := context.Background()
			q := NewQueue[models.CenterPayload](repos.Pending, models.EntityCenter)
			q.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

			orig, err := q.AppendPending(ctx, models.CenterPayload{Name: "draft"})
			require.NoError(t, err)

			upd, err := q.UpdatePending(ctx, orig.LocalID, models.CenterPayload{Name: "final", OfficeID: 2})
			require.NoError(t, err)

			assert.Equal(t, orig.LocalID, upd.LocalID)
			assert.Equal(t, orig.CreatedAt, upd.CreatedAt)
			assert.Equal(t, orig.IdempotencyKey, upd.IdempotencyKey)
			assert.Equal(t, models.CenterPayload{Name: "final", OfficeID: 2}, upd.Payload)

			recs, err := q.ReadPendingAll(ctx)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, "final", recs[0].Payload.Name)
			assert.True(t, orig.CreatedAt.Equal(recs[0].CreatedAt))

			_, err = q.UpdatePending(ctx, orig.LocalID+1000, models.CenterPayload{})
			require.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestQueue_DeleteAndReload(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repos := b.open(t)
			ctx := context.Background()
			q := NewQueue[models.ClientPayload](repos.Pending, models.EntityClient)

			a, _ := q.AppendPending(ctx, models.ClientPayload{Firstname: "a"})
			bb, _ := q.AppendPending(ctx, models.ClientPayload{Firstname: "b"})

			rest, err := q.DeletePendingAndReload(ctx, a.LocalID)
			require.NoError(t, err)
			assert.Equal(t, []int64{bb.LocalID}, localIDs(rest))

			_, err = q.DeletePendingAndReload(ctx, a.LocalID)
			require.ErrorIs(t, err, common.ErrorNotFound)

			after, err := q.ReadPendingAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int64{bb.LocalID}, localIDs(after), "a failed delete must not mutate the queue")
		})
	}
}

func TestQueue_TypesAreIndependent(t *testing.T) {
	repos := backends()[0].open(t)
	ctx := context.Background()
	clients := NewQueue[models.ClientPayload](repos.Pending, models.EntityClient)
	centers := NewQueue[models.CenterPayload](repos.Pending, models.EntityCenter)

	c, err := clients.AppendPending(ctx, models.ClientPayload{Firstname: "x"})
	require.NoError(t, err)
	_, err = centers.AppendPending(ctx, models.CenterPayload{Name: "y"})
	require.NoError(t, err)

	_, err = centers.DeletePendingAndReload(ctx, c.LocalID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	recs, err := clients.ReadPendingAll(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestQueue_ConcurrentAppendSQLite(t *testing.T) {
	repos := backends()[0].open(t)
	ctx := context.Background()
	q := NewQueue[models.ClientPayload](repos.Pending, models.EntityClient)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.AppendPending(ctx, models.ClientPayload{OfficeID: int64(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	recs, err := q.ReadPendingAll(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 10)
}

func TestDocuments_RoundTrip(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			repos := b.open(t)
			ctx := context.Background()
			docs := NewDocuments[models.ClientAccounts](repos.Documents, models.DocClientAccounts)

			_, err := docs.Get(ctx, IDKey(7))
			require.ErrorIs(t, err, common.ErrorNotFound)

			want := models.ClientAccounts{LoanAccounts: []models.LoanAccount{{ID: 1, AccountNo: "000001"}}}
			require.NoError(t, docs.Put(ctx, IDKey(7), want))

			got, err := docs.Get(ctx, IDKey(7))
			require.NoError(t, err)
			assert.Equal(t, want.LoanAccounts, got.LoanAccounts)
		})
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sq, err := Open(ctx, BackendSQLite, filepath.Join(dir, "nested", "cache.db"), logging.Nop())
	require.NoError(t, err)
	require.NoError(t, sq.Metadata.Set(ctx, "k", []byte("v")))
	require.NoError(t, sq.Close())

	pb, err := Open(ctx, BackendPebble, filepath.Join(dir, "kv"), logging.Nop())
	require.NoError(t, err)
	require.NoError(t, pb.Close())

	_, err = Open(ctx, "bolt", dir, logging.Nop())
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestInitDatabase_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
