package xnearcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_L2EnabledWithoutRemote_ReturnsError(t *testing.T) {
	_, err := NewRegistry(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNilRemote)
}

func TestNewRegistry_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.L1.MaxEntries = 0

	_, err := NewRegistry(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegistry_GetOrCreate_SameName_ReturnsSameInstance(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())

	a1 := mustCache(t, registry, "a")
	a2 := mustCache(t, registry, "a")
	assert.Same(t, a1, a2)
}

func TestRegistry_GetOrCreate_DistinctNames_DoNotCrossContaminate(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())
	a := mustCache(t, registry, "a")
	b := mustCache(t, registry, "b")
	ctx := context.Background()

	require.NotSame(t, a, b)
	require.NoError(t, a.Put(ctx, "k", []byte("va")))

	_, found := b.Lookup(ctx, "k")
	assert.False(t, found)
}

func TestRegistry_GetOrCreate_EmptyName_ReturnsError(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())

	_, err := registry.GetOrCreate("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRegistry_GetOrCreate_ConcurrentFirstAccess_CreatesExactlyOne(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())

	const goroutines = 32
	results := make([]Cache, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := registry.GetOrCreate("users")
			assert.NoError(t, err)
			results[idx] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestRegistry_GetOrCreate_AppliesOverridesPerField(t *testing.T) {
	ttl := 5 * time.Minute
	cfg := DefaultConfig()
	cfg.Caches = map[string]Override{
		"users": {L2TTL: &ttl},
	}
	registry, mr := newTestRegistry(t, cfg)
	users := mustCache(t, registry, "users")
	orders := mustCache(t, registry, "orders")
	ctx := context.Background()

	require.NoError(t, users.Put(ctx, "1", []byte("u")))
	require.NoError(t, orders.Put(ctx, "1", []byte("o")))

	// users 使用覆盖的 TTL，orders 回落到全局默认值
	assert.Equal(t, 5*time.Minute, mr.TTL("near-cache:users:1"))
	assert.Equal(t, time.Hour, mr.TTL("near-cache:orders:1"))
}

func TestRegistry_Names_SnapshotsInstantiatedCaches(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())

	assert.Empty(t, registry.Names())

	mustCache(t, registry, "users")
	mustCache(t, registry, "orders")
	assert.ElementsMatch(t, []string{"users", "orders"}, registry.Names())
}

func TestRegistry_EvictLocalOnly_RoutesToTargetCache(t *testing.T) {
	registry, mr := newTestRegistry(t, DefaultConfig())
	users := mustCache(t, registry, "users")
	ctx := context.Background()
	require.NoError(t, users.Put(ctx, "1", []byte("Alice")))

	registry.EvictLocalOnly("users", "1")

	// 只动 L1，L2 保留
	assert.True(t, mr.Exists("near-cache:users:1"))
	mr.Close()
	_, found := users.Lookup(ctx, "1")
	assert.False(t, found)
}

func TestRegistry_EvictLocalOnly_UnknownName_SilentlyDrops(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())

	assert.NotPanics(t, func() {
		registry.EvictLocalOnly("never-created", "1")
		registry.ClearLocalOnly("never-created")
	})
}

func TestRegistry_ClearAllLocal_KeepsL2(t *testing.T) {
	registry, mr := newTestRegistry(t, DefaultConfig())
	users := mustCache(t, registry, "users")
	orders := mustCache(t, registry, "orders")
	ctx := context.Background()
	require.NoError(t, users.Put(ctx, "1", []byte("u")))
	require.NoError(t, orders.Put(ctx, "1", []byte("o")))

	registry.ClearAllLocal()

	assert.Zero(t, users.Stats().EstimatedSize)
	assert.Zero(t, orders.Stats().EstimatedSize)
	assert.True(t, mr.Exists("near-cache:users:1"))
	assert.True(t, mr.Exists("near-cache:orders:1"))
}

func TestRegistry_Stats_ReturnsPerNamespaceSnapshots(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())
	users := mustCache(t, registry, "users")
	ctx := context.Background()
	require.NoError(t, users.Put(ctx, "1", []byte("Alice")))
	users.Lookup(ctx, "1")

	stats := registry.Stats()
	require.Contains(t, stats, "users")
	assert.Equal(t, uint64(1), stats["users"].Hits)
	assert.Equal(t, int64(1), stats["users"].EstimatedSize)
}

func TestRegistry_Close_IsIdempotentError(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())
	mustCache(t, registry, "users")

	require.NoError(t, registry.Close())
	assert.ErrorIs(t, registry.Close(), ErrClosed)
}

func TestRegistry_AfterClose_OperationsReturnErrClosed(t *testing.T) {
	registry, _ := newTestRegistry(t, DefaultConfig())
	users := mustCache(t, registry, "users")
	require.NoError(t, registry.Close())
	ctx := context.Background()

	_, err := registry.GetOrCreate("orders")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, users.Put(ctx, "1", []byte("v")), ErrClosed)
	_, found := users.Lookup(ctx, "1")
	assert.False(t, found)
}
