package xnearcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOperations(t *testing.T) *Operations {
	t.Helper()

	registry, _ := newTestRegistry(t, DefaultConfig())
	return NewOperations(registry)
}

func TestOperations_PutThenGet_ReturnsValue(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	require.NoError(t, ops.Put(ctx, "users", "1", []byte("alice")))

	value, ok, err := ops.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("alice"), value)
}

func TestOperations_Get_InstantiatesNamespace(t *testing.T) {
	ops := newTestOperations(t)

	_, ok, err := ops.Get(context.Background(), "orders", "42")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, ops.Names(), "orders")
}

func TestOperations_EmptyName_ReturnsError(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	_, _, err := ops.Get(ctx, "", "1")
	assert.ErrorIs(t, err, ErrInvalidName)

	err = ops.Put(ctx, "", "1", []byte("v"))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestOperations_Exists_ReportsPresence(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	ok, err := ops.Exists(ctx, "users", "1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ops.Put(ctx, "users", "1", []byte("alice")))

	ok, err = ops.Exists(ctx, "users", "1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOperations_EvictThenClear_RemoveEntries(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	require.NoError(t, ops.Put(ctx, "users", "1", []byte("alice")))
	require.NoError(t, ops.Put(ctx, "users", "2", []byte("bob")))

	require.NoError(t, ops.Evict(ctx, "users", "1"))
	_, ok, err := ops.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ops.Clear(ctx, "users"))
	_, ok, err = ops.Get(ctx, "users", "2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOperations_GetOrCompute_LoadsOnMiss(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) ([]byte, error) {
		calls++
		return []byte("loaded"), nil
	}

	value, err := ops.GetOrCompute(ctx, "users", "1", loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), value)

	value, err = ops.GetOrCompute(ctx, "users", "1", loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), value)
	assert.Equal(t, 1, calls)
}

func TestOperations_Stats_UncreatedNamespace_ReturnsFalse(t *testing.T) {
	ops := newTestOperations(t)

	_, ok := ops.Stats("ghost")
	assert.False(t, ok)
}

func TestOperations_AllStats_CoversCreatedNamespaces(t *testing.T) {
	ops := newTestOperations(t)
	ctx := context.Background()

	require.NoError(t, ops.Put(ctx, "users", "1", []byte("alice")))
	require.NoError(t, ops.Put(ctx, "orders", "42", []byte("pending")))

	all := ops.AllStats()
	assert.Len(t, all, 2)
	assert.Contains(t, all, "users")
	assert.Contains(t, all, "orders")

	stats, ok := ops.Stats("users")
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.EstimatedSize)
}

func TestOperations_ClearAllLocal_KeepsL2(t *testing.T) {
	registry, mr := newTestRegistry(t, DefaultConfig())
	ops := NewOperations(registry)
	ctx := context.Background()

	require.NoError(t, ops.Put(ctx, "users", "1", []byte("alice")))
	ops.ClearAllLocal()

	assert.True(t, mr.Exists("near-cache:users:1"))

	// L1 已清空，读取经 L2 回填后仍可命中
	value, ok, err := ops.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("alice"), value)
}
