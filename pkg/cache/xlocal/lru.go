package xlocal

import (
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxLRUEntries LRU 实现的最大条目数上限。
const maxLRUEntries = 1 << 24 // 16,777,216

// LRU 是基于 hashicorp expirable LRU 的 Local 实现。
//
// 写入同步完成，EstimatedSize 为精确值，适合确定性要求高的场景。
// expirable LRU 的 TTL 自写入起算且命中不刷新，因此访问后过期
// 与写后过期统一近似为条目 TTL（取较小值）。
//
// 注意：底层库的淘汰回调在 Remove/Purge 路径同样触发，
// 因此 Stats().Evictions 包含显式删除，数值偏大。
//
// 注意：配置了 TTL 时，底层库会启动一个 TTL 清理 goroutine，
// v2.0.7 未提供关闭入口（上游注明将在后续版本补充），因此 Close
// 只清空数据并拒绝后续操作，无法终止该 goroutine。使用 goleak 的
// 测试需要忽略 expirable.NewLRU[...].func1 这一帧。
type LRU struct {
	lru       *expirable.LRU[string, []byte]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	closed    atomic.Bool
}

var _ Local = (*LRU)(nil)

// NewLRU 创建 expirable LRU L1 缓存。
func NewLRU(cfg Config) (*LRU, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxEntries > maxLRUEntries {
		return nil, ErrInvalidMaxEntries
	}

	l := &LRU{}
	l.lru = expirable.NewLRU(cfg.MaxEntries, func(string, []byte) {
		l.evictions.Add(1)
	}, cfg.entryTTL())

	return l, nil
}

// Put 写入条目。
func (l *LRU) Put(key string, value []byte) {
	if l.closed.Load() {
		return
	}
	l.lru.Add(key, value)
}

// GetIfPresent 查询条目。
func (l *LRU) GetIfPresent(key string) ([]byte, bool) {
	if l.closed.Load() {
		return nil, false
	}
	value, ok := l.lru.Get(key)
	if ok {
		l.hits.Add(1)
		return value, true
	}
	l.misses.Add(1)
	return nil, false
}

// Invalidate 删除指定 key。
func (l *LRU) Invalidate(key string) {
	if l.closed.Load() {
		return
	}
	l.lru.Remove(key)
}

// InvalidateAll 删除所有条目。
func (l *LRU) InvalidateAll() {
	if l.closed.Load() {
		return
	}
	l.lru.Purge()
}

// EstimatedSize 返回当前条目数（精确值）。
func (l *LRU) EstimatedSize() int64 {
	if l.closed.Load() {
		return 0
	}
	return int64(l.lru.Len())
}

// Stats 返回命中统计信息。
func (l *LRU) Stats() Stats {
	return Stats{
		Hits:      l.hits.Load(),
		Misses:    l.misses.Load(),
		Evictions: l.evictions.Load(),
	}
}

// Wait 是 no-op：LRU 写入同步完成。
func (l *LRU) Wait() {}

// Close 关闭缓存：清空数据，后续操作降级为 no-op。重复关闭返回
// ErrClosed。受上游限制无法终止 TTL 清理 goroutine，见类型说明。
func (l *LRU) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	l.lru.Purge()
	return nil
}
