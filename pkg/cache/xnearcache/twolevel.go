package xnearcache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xnear/pkg/cache/xlocal"
	"github.com/omeyang/xnear/pkg/cache/xremote"
)

// detachedCtx 是一个脱离原始 context 取消链的 context。
// 保留原始 context 的 Value，但不继承其 Done/Err/Deadline。
// 用于 singleflight 场景，避免首个调用者取消影响其他等待者。
type detachedCtx struct {
	context.Context
}

func (c detachedCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (c detachedCtx) Done() <-chan struct{}       { return nil }
func (c detachedCtx) Err() error                  { return nil }

// contextWithIndependentTimeout 创建脱离原始取消链但有独立超时的 context。
// timeout 行为：
//   - timeout == 0: 禁用超时（仍脱离原始取消链）
//   - timeout < 0: 使用 RecommendedLoadTimeout (30s)
//   - timeout > 0: 使用指定超时时间
func contextWithIndependentTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	detached := detachedCtx{Context: ctx}

	if timeout == 0 {
		return context.WithCancel(detached)
	}
	if timeout < 0 {
		timeout = RecommendedLoadTimeout
	}
	return context.WithTimeout(detached, timeout)
}

// =============================================================================
// TwoLevelCache 实现
// =============================================================================

// twoLevelCache 实现 Cache 接口，管理单个命名空间的两级读写。
// local 与 remote 为 nil 表示对应层未启用。
type twoLevelCache struct {
	cfg    namespaceConfig
	opts   *Options
	local  xlocal.Local   // L1，可能为 nil
	remote xremote.Remote // L2，可能为 nil
	group  singleflight.Group
	closed atomic.Bool
}

// newTwoLevelCache 按已解析的命名空间配置构造缓存实例。
func newTwoLevelCache(cfg namespaceConfig, remote xremote.Remote, opts *Options) (*twoLevelCache, error) {
	c := &twoLevelCache{cfg: cfg, opts: opts}

	if cfg.l1Enabled {
		local, err := opts.LocalFactory(xlocal.Config{
			MaxEntries:        cfg.l1MaxEntries,
			ExpireAfterWrite:  cfg.l1ExpireAfterWrite,
			ExpireAfterAccess: cfg.l1ExpireAfterAccess,
		})
		if err != nil {
			return nil, fmt.Errorf("xnearcache: create local tier for %q: %w", cfg.name, err)
		}
		c.local = local
	}
	if cfg.l2Enabled {
		c.remote = remote
	}
	return c, nil
}

// Name 返回命名空间名称。
func (c *twoLevelCache) Name() string {
	return c.cfg.name
}

// Lookup 查询缓存，见 Cache 接口文档。
func (c *twoLevelCache) Lookup(ctx context.Context, key string) ([]byte, bool) {
	stored, ok := c.lookupStored(ctx, key)
	if !ok {
		return nil, false
	}
	return unwrapNull(stored), true
}

// lookupStored 返回存储形态的值（null marker 不还原）。
// L2 故障视同未命中，记录日志后吞掉（fail-open 读）。
func (c *twoLevelCache) lookupStored(ctx context.Context, key string) ([]byte, bool) {
	if c.closed.Load() {
		return nil, false
	}

	// 1. L1 命中直接返回，不访问 L2
	if c.local != nil {
		if stored, ok := c.local.GetIfPresent(key); ok {
			return stored, true
		}
	}

	// 2. L1 未命中或未启用，查 L2 并回填 L1
	if c.remote != nil {
		stored, err := c.remote.Get(ctx, c.cfg.remoteKey(key))
		switch {
		case err == nil:
			if c.local != nil {
				c.local.Put(key, stored)
			}
			return stored, true
		case errors.Is(err, xremote.ErrNotFound):
			// L2 未命中
		default:
			c.logWarn("xnearcache: remote get failed, treating as miss",
				"cache", c.cfg.name, "key", key, "error", err)
		}
	}

	return nil, false
}

// GetOrLoad 查询缓存，未命中时回源，见 Cache 接口文档。
func (c *twoLevelCache) GetOrLoad(ctx context.Context, key string, loader LoadFunc) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if loader == nil {
		return nil, ErrNilLoader
	}

	if stored, ok := c.lookupStored(ctx, key); ok {
		return unwrapNull(stored), nil
	}

	// 使用独立 ctx，避免首个调用者取消或超时影响其他等待者，
	// 同时设置独立超时，防止回源挂起导致 goroutine 泄漏
	sfCtx, sfCancel := contextWithIndependentTimeout(ctx, c.opts.LoadTimeout)
	defer sfCancel()

	ch := c.group.DoChan(key, func() (any, error) {
		// 再次检查缓存（double-check），等待者可能已由首个请求回填
		if stored, ok := c.lookupStored(sfCtx, key); ok {
			return unwrapNull(stored), nil
		}

		value, err := loader(sfCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrLoadFailed, key, err)
		}
		if putErr := c.Put(sfCtx, key, value); putErr != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrLoadFailed, key, putErr)
		}
		return value, nil
	})

	// 每个调用者独立等待，可以各自取消
	select {
	case <-ctx.Done():
		// 原始 ctx 取消，返回错误，但后台回源继续供其他等待者使用
		return nil, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return nil, result.Err
		}
		if result.Val == nil {
			return nil, nil
		}
		value, ok := result.Val.([]byte)
		if !ok {
			return nil, errors.New("xnearcache: unexpected result type from singleflight")
		}
		return value, nil
	}
}

// Put 写入两级缓存，见 Cache 接口文档。
func (c *twoLevelCache) Put(ctx context.Context, key string, value []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	// 配置契约检查先于任何层写入
	if value == nil && !c.cfg.cacheNulls {
		return fmt.Errorf("%w: cache %q key %q", ErrNullValueDisabled, c.cfg.name, key)
	}

	stored := wrapNull(value)

	if c.local != nil {
		c.local.Put(key, stored)
	}
	if c.remote != nil {
		if err := c.remote.Set(ctx, c.cfg.remoteKey(key), stored, c.cfg.l2TTL); err != nil {
			// 不回滚 L1 写入
			c.logWarn("xnearcache: remote set failed",
				"cache", c.cfg.name, "key", key, "error", err)
		}
	}

	if c.opts.PublishOnPut {
		c.publishEvict(ctx, key)
	}
	return nil
}

// PutIfAbsent 在键不存在时写入，见 Cache 接口文档。
func (c *twoLevelCache) PutIfAbsent(ctx context.Context, key string, value []byte) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	if stored, ok := c.lookupStored(ctx, key); ok {
		return unwrapNull(stored), true, nil
	}
	if err := c.Put(ctx, key, value); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Evict 从两级缓存删除键并广播，见 Cache 接口文档。
func (c *twoLevelCache) Evict(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if c.local != nil {
		c.local.Invalidate(key)
	}
	if c.remote != nil {
		if err := c.remote.Delete(ctx, c.cfg.remoteKey(key)); err != nil {
			c.logWarn("xnearcache: remote delete failed",
				"cache", c.cfg.name, "key", key, "error", err)
		}
	}

	// 广播表达调用方意图，与两级删除是否真正命中无关
	c.publishEvict(ctx, key)
	return nil
}

// Clear 清空本命名空间并广播，见 Cache 接口文档。
// L2 清空是按前缀的扫描删除，耗时与命名空间大小成正比。
func (c *twoLevelCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if c.local != nil {
		c.local.InvalidateAll()
	}
	if c.remote != nil {
		if _, err := c.remote.DeleteByPrefix(ctx, c.cfg.remotePrefix()); err != nil {
			c.logWarn("xnearcache: remote clear failed",
				"cache", c.cfg.name, "prefix", c.cfg.remotePrefix(), "error", err)
		}
	}

	if c.opts.Publisher != nil {
		if err := c.opts.Publisher.PublishClear(ctx, c.cfg.name); err != nil {
			c.logWarn("xnearcache: publish clear failed",
				"cache", c.cfg.name, "error", err)
		}
	}
	return nil
}

// EvictLocalOnly 只删除 L1 中的键，不触碰 L2，不广播。
// 不再广播是防止实例间失效风暴的关键约束。
func (c *twoLevelCache) EvictLocalOnly(key string) {
	if c.closed.Load() || c.local == nil {
		return
	}
	c.local.Invalidate(key)
}

// ClearLocalOnly 只清空 L1，不触碰 L2，不广播。
func (c *twoLevelCache) ClearLocalOnly() {
	if c.closed.Load() || c.local == nil {
		return
	}
	c.local.InvalidateAll()
}

// Stats 返回本命名空间的 L1 统计快照。L1 未启用时返回零值。
func (c *twoLevelCache) Stats() Stats {
	if c.local == nil {
		return Stats{}
	}
	ls := c.local.Stats()
	return Stats{
		Hits:          ls.Hits,
		Misses:        ls.Misses,
		Evictions:     ls.Evictions,
		EstimatedSize: c.local.EstimatedSize(),
	}
}

// close 关闭缓存实例，由 Registry.Close 调用。
func (c *twoLevelCache) close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	if c.local != nil {
		_ = c.local.Close()
	}
}

// publishEvict 广播单键失效消息，失败记录日志后吞掉。
func (c *twoLevelCache) publishEvict(ctx context.Context, key string) {
	if c.opts.Publisher == nil {
		return
	}
	if err := c.opts.Publisher.PublishEvict(ctx, c.cfg.name, key); err != nil {
		c.logWarn("xnearcache: publish evict failed",
			"cache", c.cfg.name, "key", key, "error", err)
	}
}

// logWarn 记录警告日志（如果配置了 Logger）。
func (c *twoLevelCache) logWarn(msg string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn(msg, args...)
	}
}
