package local

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New[string, int](10, nil)
	c.Set("a", 1, time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[string, int](10, nil)
	c.Set("a", 1, -time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := New[string, int](2, nil)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Get("a") // a now most recently used
	c.Set("c", 3, time.Minute)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted as least recently used")

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTLCache_Delete(t *testing.T) {
	c := New[string, int](10, nil)
	c.Set("a", 1, time.Minute)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_CreateIfAbsent_SecondCallOnSameKeyFails(t *testing.T) {
	c := New[string, int](10, nil)

	require.True(t, c.CreateIfAbsent("a", 1, time.Minute))
	require.False(t, c.CreateIfAbsent("a", 2, time.Minute))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v, "the first-created value must survive a failed second create")
}

func TestTTLCache_CreateIfAbsent_ExpiredEntryStillCountsAsPresent(t *testing.T) {
	c := New[string, int](10, nil)

	require.True(t, c.CreateIfAbsent("a", 1, -time.Second))
	assert.False(t, c.CreateIfAbsent("a", 2, time.Minute), "an expired-but-unswept entry must still block a create")
}

func TestTTLCache_CleanExpired_RemovesOnlyExpiredEntries(t *testing.T) {
	c := New[string, int](10, nil)
	c.Set("expired", 1, -time.Second)
	c.Set("fresh", 2, time.Minute)

	removed := c.CleanExpired()
	assert.Equal(t, 1, removed)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestTTLCache_Stats(t *testing.T) {
	c := New[string, int](10, nil)
	c.Set("a", 1, time.Minute)
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}
