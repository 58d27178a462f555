package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchd/internal/structures"
)

func cacheConfig(enabled bool) *structures.Config {
	return &structures.Config{
		Cache:    structures.CacheConfig{Enabled: enabled, Size: 1},
		Resolver: structures.ResolverConfig{RefreshInterval: time.Minute},
	}
}

func TestCacheProviderSetGetDel(t *testing.T) {
	cache := NewCacheProvider(cacheConfig(true), nopLogger{})

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("key", []byte("value"))
	val, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), val)

	cache.Del("key")
	_, ok = cache.Get("key")
	assert.False(t, ok)
}

func TestCacheProviderDisabledIsNoop(t *testing.T) {
	cache := NewCacheProvider(cacheConfig(false), nopLogger{})

	cache.Set("key", []byte("value"))
	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestCacheProviderZeroSizeFallsBackToNoop(t *testing.T) {
	conf := cacheConfig(true)
	conf.Cache.Size = 0

	cache := NewCacheProvider(conf, nopLogger{})

	cache.Set("key", []byte("value"))
	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("abc"), unsafeStringToBytes("abc"))
}
