package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chemistflow/internal/cache/distributed"
)

func newLocalOnlyStore(t *testing.T) *Store[string] {
	t.Helper()
	return New[string](Config{LocalMaxItems: 100, LocalTTL: time.Minute}, nil, nil, nil)
}

func newDistributedStore(t *testing.T) *distributed.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return distributed.New(client, "node-a")
}

func TestStore_Create_SecondCallOnSameIDReturnsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	s := newLocalOnlyStore(t)

	require.NoError(t, s.Create(ctx, "id", "v1"))
	err := s.Create(ctx, "id", "v2")
	require.ErrorIs(t, err, ErrAlreadyExists)

	v, ok, err := s.Get(ctx, "id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", v, "the first create must win; the second must not overwrite it")
}

func TestStore_Create_WriteThroughsToDistributedTier(t *testing.T) {
	ctx := context.Background()
	dist := newDistributedStore(t)
	s := New[string](Config{LocalMaxItems: 100, LocalTTL: time.Minute}, dist, nil, nil)

	require.NoError(t, s.Create(ctx, "id", "v1"))

	var out string
	found, err := dist.Get(ctx, "id", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", out)
}

func TestStore_Delete_OnlyTouchesLocalTier(t *testing.T) {
	ctx := context.Background()
	dist := newDistributedStore(t)
	s := New[string](Config{LocalMaxItems: 100, LocalTTL: time.Minute}, dist, nil, nil)

	require.NoError(t, s.Set(ctx, "id", "v1"))
	require.NoError(t, s.Delete(ctx, "id"))

	// The local tier no longer has it...
	_, localOK := s.local.Get("id")
	assert.False(t, localOK)

	// ...but the distributed tier, being write-only from this system's
	// perspective, must still have it.
	var out string
	found, err := dist.Get(ctx, "id", &out)
	require.NoError(t, err)
	assert.True(t, found, "delete must not remove the entry from the distributed tier")
	assert.Equal(t, "v1", out)
}

func TestStore_CleanExpired_SweepsLocalTierOnly(t *testing.T) {
	ctx := context.Background()
	s := newLocalOnlyStore(t)

	s.local.Set("expired", "v", -time.Second)
	require.NoError(t, s.Set(ctx, "fresh", "v"))

	removed := s.CleanExpired()
	assert.Equal(t, 1, removed)

	_, ok, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}
