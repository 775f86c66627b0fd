// SPDX-License-Identifier: MIT

package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolab/wellcore/internal/config"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemory(0)
	defer func() { _ = c.Close() }()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(3), stats.Sets)
	assert.Equal(t, 2, stats.CurrentSize)

	c.Clear()
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory(0)
	defer func() { _ = c.Close() }()

	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestMemoryCacheJanitor(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	defer func() { _ = c.Close() }()

	c.Set("k", []byte("v"), time.Millisecond)
	assert.Eventually(t, func() bool {
		return c.Stats().Evictions >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOp()
	c.Set("k", []byte("v"), time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
	assert.NoError(t, c.Close())
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("a", []byte("1"), time.Minute)
	assert.Equal(t, 1, c.Stats().CurrentSize)

	c.Clear()
	assert.Equal(t, 0, c.Stats().CurrentSize)

	assert.NoError(t, c.HealthCheck(t.Context()))
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	c.Set("k", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedis(RedisConfig{Addr: "127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestBadgerCache(t *testing.T) {
	c, err := NewBadger(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), time.Minute)
	assert.Equal(t, 2, c.Stats().CurrentSize)

	c.Clear()
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestOpen(t *testing.T) {
	c, err := Open(config.CacheConfig{Backend: config.CacheNone}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &noOpCache{}, c)

	c, err = Open(config.CacheConfig{Backend: config.CacheMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memoryCache{}, c)
	_ = c.Close()

	mr := miniredis.RunT(t)
	c, err = Open(config.CacheConfig{Backend: config.CacheRedis, RedisAddr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)
	_ = c.Close()

	c, err = Open(config.CacheConfig{Backend: config.CacheBadger, BadgerPath: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &BadgerCache{}, c)
	_ = c.Close()

	_, err = Open(config.CacheConfig{Backend: "bogus"}, zerolog.Nop())
	assert.Error(t, err)
}
