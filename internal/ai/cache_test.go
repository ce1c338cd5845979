package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCacheKeyDependsOnAllParts проверяет состав ключа кеша.
func TestCacheKeyDependsOnAllParts(t *testing.T) {
	base := CacheKey("groq", "llama", "prompt")

	assert.True(t, strings.HasPrefix(base, cacheKeyPrefix))
	assert.Equal(t, base, CacheKey("groq", "llama", "prompt"))
	assert.NotEqual(t, base, CacheKey("gemini", "llama", "prompt"))
	assert.NotEqual(t, base, CacheKey("groq", "flash", "prompt"))
	assert.NotEqual(t, base, CacheKey("groq", "llama", "prompt2"))
}

// TestMemoryCacheExpires проверяет истечение TTL.
func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", "v"))

	value, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryCacheWithoutTTL проверяет бессрочное хранение.
func TestMemoryCacheWithoutTTL(t *testing.T) {
	cache := NewMemoryCache(0)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", "v"))

	cache.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
