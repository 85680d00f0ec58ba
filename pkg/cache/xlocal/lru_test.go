package xlocal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLRU(t *testing.T, cfg Config) *LRU {
	t.Helper()

	cache, err := NewLRU(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func TestNewLRU_WithInvalidConfig_ReturnsError(t *testing.T) {
	_, err := NewLRU(Config{MaxEntries: 0})
	assert.ErrorIs(t, err, ErrInvalidMaxEntries)

	_, err = NewLRU(Config{MaxEntries: maxLRUEntries + 1})
	assert.ErrorIs(t, err, ErrInvalidMaxEntries)

	_, err = NewLRU(Config{MaxEntries: 10, ExpireAfterAccess: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestLRU_PutAndGet_IsSynchronous(t *testing.T) {
	cache := newTestLRU(t, Config{MaxEntries: 100})

	cache.Put("key", []byte("value"))

	// 无需 Wait，写入立即可见
	value, ok := cache.GetIfPresent("key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), value)
}

func TestLRU_AtCapacity_EvictsOldest(t *testing.T) {
	cache := newTestLRU(t, Config{MaxEntries: 2})

	cache.Put("a", []byte("1"))
	cache.Put("b", []byte("2"))
	cache.Put("c", []byte("3")) // 淘汰最久未访问的 "a"

	_, ok := cache.GetIfPresent("a")
	assert.False(t, ok)
	_, ok = cache.GetIfPresent("b")
	assert.True(t, ok)
	_, ok = cache.GetIfPresent("c")
	assert.True(t, ok)

	assert.Equal(t, int64(2), cache.EstimatedSize())
	assert.GreaterOrEqual(t, cache.Stats().Evictions, uint64(1))
}

func TestLRU_ExpireAfterWrite_EntryExpires(t *testing.T) {
	cache := newTestLRU(t, Config{
		MaxEntries:       100,
		ExpireAfterWrite: 20 * time.Millisecond,
	})
	cache.Put("key", []byte("value"))

	time.Sleep(60 * time.Millisecond)

	_, ok := cache.GetIfPresent("key")
	assert.False(t, ok)
}

func TestLRU_InvalidateAll_ResetsSize(t *testing.T) {
	cache := newTestLRU(t, Config{MaxEntries: 100})
	for i := 0; i < 10; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), []byte("v"))
	}
	require.Equal(t, int64(10), cache.EstimatedSize())

	cache.InvalidateAll()

	assert.Equal(t, int64(0), cache.EstimatedSize())
}

func TestLRU_Stats_TracksHitsAndMisses(t *testing.T) {
	cache := newTestLRU(t, Config{MaxEntries: 100})
	cache.Put("key", []byte("value"))

	cache.GetIfPresent("key")
	cache.GetIfPresent("key")
	cache.GetIfPresent("missing")

	stats := cache.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLRU_Close_IsIdempotentError(t *testing.T) {
	cache, err := NewLRU(Config{MaxEntries: 100})
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	assert.ErrorIs(t, cache.Close(), ErrClosed)
}

func TestLRU_Close_WithTTLConfigured_StillSucceeds(t *testing.T) {
	// 配置 TTL 会启动上游的清理 goroutine；Close 依然正常完成，
	// 残留的 goroutine 由本包 TestMain 的 goleak 忽略项覆盖
	cache, err := NewLRU(Config{MaxEntries: 100, ExpireAfterWrite: 10 * time.Minute})
	require.NoError(t, err)
	cache.Put("key", []byte("value"))

	require.NoError(t, cache.Close())
	_, ok := cache.GetIfPresent("key")
	assert.False(t, ok)
}

func TestLRU_AfterClose_OperationsAreNoop(t *testing.T) {
	cache, err := NewLRU(Config{MaxEntries: 100})
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	assert.NotPanics(t, func() {
		cache.Put("key", []byte("value"))
		cache.Invalidate("key")
		cache.InvalidateAll()
	})
	_, ok := cache.GetIfPresent("key")
	assert.False(t, ok)
	assert.Equal(t, int64(0), cache.EstimatedSize())
}
