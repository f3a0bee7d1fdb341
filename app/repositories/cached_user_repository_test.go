package repositories_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/cache"
)

func newCached(t *testing.T) (*repositories.CachedUserRepository, *repositories.MemoryUserRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.Connect(context.Background(), mr.Addr(), "", "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	inner := repositories.NewMemoryUserRepository()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repositories.NewCachedUserRepository(inner, c, time.Minute, log), inner, mr
}

func TestCachedUserRepositoryContract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		repo, _, _ := newCached(t)
		return repo
	})
}

func TestCachedUserRepositoryReadThrough(t *testing.T) {
	ctx := context.Background()
	repo, inner, mr := newCached(t)
	require.NoError(t, repo.Create(ctx, newUser("u1", "ada@example.com")))
	assert.False(t, mr.Exists("test:users:u1"))

	got, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:users:u1"))
	assert.Equal(t, time.Minute, mr.TTL("test:users:u1"))

	// A change behind the cache's back is not seen until eviction.
	stale := newUser("u1", "ada@example.com")
	stale.FirstName = "Changed"
	require.NoError(t, inner.Update(ctx, stale))

	cached, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, got.FirstName, cached.FirstName)
	assert.Equal(t, "hash-u1", cached.Password, "password hash survives the cache round trip")
}

func TestCachedUserRepositoryEvictsOnWrite(t *testing.T) {
	ctx := context.Background()
	repo, _, mr := newCached(t)
	require.NoError(t, repo.Create(ctx, newUser("u1", "ada@example.com")))
	_, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)

	changed := newUser("u1", "ada@example.com")
	changed.LastName = "Lovelace"
	require.NoError(t, repo.Update(ctx, changed))
	assert.False(t, mr.Exists("test:users:u1"))

	got, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.LastName)

	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.False(t, mr.Exists("test:users:u1"))
}

func TestCachedUserRepositoryFallsThroughWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	repo, _, mr := newCached(t)
	require.NoError(t, repo.Create(ctx, newUser("u1", "ada@example.com")))

	mr.Close()

	got, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	require.NoError(t, repo.Delete(ctx, "u1"))
}
