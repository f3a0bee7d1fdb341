package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/cache"
)

type item struct {
	Name string `json:"name"`
}

func TestSetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := cache.Connect(ctx, mr.Addr(), "", "test:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", item{Name: "alpha"}, time.Minute))
	assert.True(t, mr.Exists("test:a"))

	var got item
	hit, err := c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "alpha", got.Name)

	require.NoError(t, c.Del(ctx, "a"))
	hit, err = c.Get(ctx, "a", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestTTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c, err := cache.Connect(ctx, mr.Addr(), "", "")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var n int
	hit, err := c.Get(ctx, "k", &n)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := cache.Connect(ctx, addr, "", "")
	assert.Error(t, err)
}
