package xlocal

import (
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
)

// minNumCounters 频率计数器数量下限。
// ristretto 建议计数器数量为预期 key 数的 10 倍，过小会显著降低准入判断质量。
const minNumCounters = 1024

// ristrettoBufferItems 写入缓冲区大小，沿用 ristretto 推荐值。
const ristrettoBufferItems = 64

// Ristretto 是基于 ristretto 的 Local 实现。
//
// 每个条目 cost 固定为 1，因此 MaxCost 即最大条目数。
// 写入经过异步缓冲，写后立即读取需要先调用 Wait()。
//
// 过期语义说明：ristretto 仅支持按条目的固定 TTL（自写入起算），
// 不支持 Caffeine 式的访问后滑动过期。当仅配置 ExpireAfterAccess 时，
// 命中会以剩余 ExpireAfterAccess 重新写入条目来近似滑动语义；
// 当两者同时配置时取较小值且不滑动。
type Ristretto struct {
	cache   *ristretto.Cache[string, []byte]
	cfg     Config
	sliding bool
	closed  atomic.Bool
}

var _ Local = (*Ristretto)(nil)

// NewRistretto 创建 ristretto L1 缓存。
func NewRistretto(cfg Config) (*Ristretto, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	numCounters := int64(cfg.MaxEntries) * 10
	if numCounters < minNumCounters {
		numCounters = minNumCounters
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: numCounters,
		MaxCost:     int64(cfg.MaxEntries),
		BufferItems: ristrettoBufferItems,
		Metrics:     true, // Stats() 依赖 Metrics
	})
	if err != nil {
		return nil, fmt.Errorf("xlocal: create ristretto cache: %w", err)
	}

	return &Ristretto{
		cache:   cache,
		cfg:     cfg,
		sliding: cfg.ExpireAfterAccess > 0 && cfg.ExpireAfterWrite == 0,
	}, nil
}

// Put 写入条目（异步，需 Wait() 后才保证可见）。
func (r *Ristretto) Put(key string, value []byte) {
	if r.closed.Load() {
		return
	}
	if ttl := r.cfg.entryTTL(); ttl > 0 {
		r.cache.SetWithTTL(key, value, 1, ttl)
	} else {
		r.cache.Set(key, value, 1)
	}
}

// GetIfPresent 查询条目。
func (r *Ristretto) GetIfPresent(key string) ([]byte, bool) {
	if r.closed.Load() {
		return nil, false
	}
	value, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	// 仅配置访问后过期时，命中即重新写入以近似滑动过期
	if r.sliding {
		r.cache.SetWithTTL(key, value, 1, r.cfg.ExpireAfterAccess)
	}
	return value, true
}

// Invalidate 删除指定 key。
func (r *Ristretto) Invalidate(key string) {
	if r.closed.Load() {
		return
	}
	r.cache.Del(key)
}

// InvalidateAll 删除所有条目。
func (r *Ristretto) InvalidateAll() {
	if r.closed.Load() {
		return
	}
	r.cache.Clear()
}

// EstimatedSize 返回条目数的粗略估算（KeysAdded - KeysEvicted）。
// 显式删除与 InvalidateAll 不计入，因此该值偏大；仅用于监控观测。
func (r *Ristretto) EstimatedSize() int64 {
	if r.closed.Load() {
		return 0
	}
	m := r.cache.Metrics
	if m == nil {
		return 0
	}
	size := int64(m.KeysAdded()) - int64(m.KeysEvicted())
	if size < 0 {
		return 0
	}
	return size
}

// Stats 返回命中统计信息。
func (r *Ristretto) Stats() Stats {
	if r.closed.Load() {
		return Stats{}
	}
	m := r.cache.Metrics
	if m == nil {
		return Stats{}
	}
	return Stats{
		Hits:      m.Hits(),
		Misses:    m.Misses(),
		Evictions: m.KeysEvicted(),
	}
}

// Wait 等待所有缓冲的写入完成。
func (r *Ristretto) Wait() {
	if r.closed.Load() {
		return
	}
	r.cache.Wait()
}

// Close 关闭缓存，停止后台 goroutine。重复关闭返回 ErrClosed。
func (r *Ristretto) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	r.cache.Close()
	return nil
}
