package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type backend struct {
	cache   Cache
	advance func(time.Duration)
}

func backends(t *testing.T) map[string]backend {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mr := miniredis.RunT(t)
	rc := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { rc.Close() })

	return map[string]backend{
		"memory": {cache: NewMemoryWithClock(clock.Now), advance: clock.Advance},
		"redis":  {cache: rc, advance: mr.FastForward},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var got payload
			ok, err := b.cache.Get(ctx, "missing", &got)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.cache.Set(ctx, "k", payload{Name: "latte", Count: 2}, time.Minute))
			ok, err = b.cache.Get(ctx, "k", &got)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, payload{Name: "latte", Count: 2}, got)

			require.NoError(t, b.cache.Del(ctx, "k"))
			ok, err = b.cache.Get(ctx, "k", &got)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, b.cache.Set(ctx, "short", "v", 10*time.Second))
			require.NoError(t, b.cache.Set(ctx, "forever", "v", 0))

			b.advance(11 * time.Second)

			var s string
			ok, err := b.cache.Get(ctx, "short", &s)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = b.cache.Get(ctx, "forever", &s)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestCacheScanAndFlush(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, b.cache.Set(ctx, SessionKey("a"), 1, time.Hour))
			require.NoError(t, b.cache.Set(ctx, SessionKey("b"), 2, time.Hour))
			require.NoError(t, b.cache.Set(ctx, UserSessionsKey("u1"), []string{"a", "b"}, time.Hour))
			require.NoError(t, b.cache.Set(ctx, CartKey("u1"), []int{}, CartTTL))

			keys, err := b.cache.ScanKeys(ctx, SessionPrefix+"*")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"session:a", "session:b"}, keys)

			require.NoError(t, b.cache.FlushAll(ctx))
			keys, err = b.cache.ScanKeys(ctx, "*")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestCacheScanMatchesSlashInKey(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, b.cache.Set(ctx, SessionKey("device/ios/7"), 1, time.Hour))
			require.NoError(t, b.cache.Set(ctx, SessionKey("plain"), 2, time.Hour))
			require.NoError(t, b.cache.Set(ctx, CartKey("u/1"), 3, time.Hour))

			keys, err := b.cache.ScanKeys(ctx, SessionPrefix+"*")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"session:device/ios/7", "session:plain"}, keys)

			keys, err = b.cache.ScanKeys(ctx, "*")
			require.NoError(t, err)
			assert.Len(t, keys, 3)
		})
	}
}

func TestMemoryTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewMemoryWithClock(clock.Now)
	require.NoError(t, m.Set(context.Background(), "k", 1, time.Hour))

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 40*time.Minute, m.TTL("k"))
	assert.Equal(t, time.Duration(0), m.TTL("absent"))
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "cart:42", CartKey("42"))
	assert.Equal(t, "session:abc", SessionKey("abc"))
	assert.Equal(t, "user-sessions:42", UserSessionsKey("42"))
	assert.Equal(t, "setting:store_open", SettingKey("store_open"))
}
