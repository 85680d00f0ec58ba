package xnearcache

import (
	"sync"
	"sync/atomic"

	"github.com/omeyang/xnear/pkg/cache/xremote"
)

// Registry 管理命名空间到缓存实例的映射。
//
// 每个命名空间在本进程内只有一个缓存实例（并发首次访问也只
// 构造一个）。Registry 同时实现 xinvalidate.Router，把入站失效
// 消息路由到目标命名空间的 L1-only 删除方法。
//
// Registry 是显式对象，由组装层持有并按引用传递，不提供全局单例。
type Registry struct {
	cfg    Config
	remote xremote.Remote
	opts   *Options

	mu     sync.RWMutex
	caches map[string]*twoLevelCache

	closed atomic.Bool
}

// NewRegistry 创建缓存注册表。
// remote 由调用方管理生命周期；L2 未启用时可传 nil。
func NewRegistry(cfg Config, remote xremote.Remote, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.L2.Enabled && remote == nil {
		return nil, ErrNilRemote
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Registry{
		cfg:    cfg,
		remote: remote,
		opts:   o,
		caches: make(map[string]*twoLevelCache),
	}, nil
}

// GetOrCreate 返回命名空间的缓存实例，不存在时创建。
// 并发首次访问同一名称时只构造一个实例，落败方复用已有实例。
func (r *Registry) GetOrCreate(name string) (Cache, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	r.mu.RLock()
	c, ok := r.caches[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// double-check：持写锁期间其他 goroutine 可能已创建
	if c, ok := r.caches[name]; ok {
		return c, nil
	}
	if r.closed.Load() {
		return nil, ErrClosed
	}

	c, err := newTwoLevelCache(r.cfg.resolve(name), r.remote, r.opts)
	if err != nil {
		return nil, err
	}
	r.caches[name] = c
	return c, nil
}

// Names 返回已实例化的命名空间名称快照。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	return names
}

// EvictLocalOnly 把入站 EVICT 消息路由到目标命名空间。
// 命名空间尚未实例化时静默丢弃：本进程还没有可失效的 L1 状态。
func (r *Registry) EvictLocalOnly(name, key string) {
	r.mu.RLock()
	c, ok := r.caches[name]
	r.mu.RUnlock()
	if !ok {
		return
	}
	c.EvictLocalOnly(key)
}

// ClearLocalOnly 把入站 CLEAR 消息路由到目标命名空间。
// 命名空间尚未实例化时静默丢弃。
func (r *Registry) ClearLocalOnly(name string) {
	r.mu.RLock()
	c, ok := r.caches[name]
	r.mu.RUnlock()
	if !ok {
		return
	}
	c.ClearLocalOnly()
}

// ClearAllLocal 清空所有已实例化命名空间的 L1。
// 管理用途：不触碰 L2，不广播。
func (r *Registry) ClearAllLocal() {
	r.mu.RLock()
	caches := make([]*twoLevelCache, 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.mu.RUnlock()

	for _, c := range caches {
		c.ClearLocalOnly()
	}
}

// Stats 返回所有已实例化命名空间的统计快照。
func (r *Registry) Stats() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]Stats, len(r.caches))
	for name, c := range r.caches {
		stats[name] = c.Stats()
	}
	return stats
}

// Close 关闭所有缓存实例。重复调用返回 ErrClosed。
// remote 由调用方管理，此处不关闭。
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.caches {
		c.close()
	}
	return nil
}
