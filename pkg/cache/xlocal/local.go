package xlocal

import "time"

// =============================================================================
// Local 接口定义
// =============================================================================

// Local 定义两级缓存对 L1（进程内缓存）的能力要求。
//
// 所有方法都是并发安全的。L1 允许在任意时刻自行淘汰条目（容量或 TTL），
// 淘汰无需与 L2 协调——两级缓存的正确性不依赖 L1 的保留承诺。
type Local interface {
	// Put 写入条目。已存在的 key 会被覆盖并刷新 TTL。
	Put(key string, value []byte)

	// GetIfPresent 查询条目。
	// 返回 false 表示 key 不存在或已过期。
	GetIfPresent(key string) ([]byte, bool)

	// Invalidate 删除指定 key。key 不存在时为 no-op。
	Invalidate(key string)

	// InvalidateAll 删除所有条目。
	InvalidateAll()

	// EstimatedSize 返回当前条目数的估算值。
	// Ristretto 实现为粗略估算，LRU 实现为精确值。
	EstimatedSize() int64

	// Stats 返回命中统计信息。
	Stats() Stats

	// Wait 等待所有缓冲的写入完成。
	// Ristretto 写入是异步的，写后立即读取前必须调用；LRU 实现为 no-op。
	Wait()

	// Close 关闭缓存并尽可能释放后台资源。关闭后的行为未定义。
	// 各实现能回收的资源不同，见 NewRistretto 与 NewLRU 的说明。
	Close() error
}

// =============================================================================
// 统计信息
// =============================================================================

// Stats 定义 L1 缓存的统计信息。
type Stats struct {
	// Hits 命中次数。
	Hits uint64

	// Misses 未命中次数。
	Misses uint64

	// Evictions 被动淘汰次数（容量或 TTL 触发）。
	// LRU 实现中显式删除也会计入，详见 NewLRU 说明。
	Evictions uint64
}

// HitRatio 返回命中率 (0.0 - 1.0)。没有任何访问时返回 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// =============================================================================
// 配置
// =============================================================================

// Config 定义 L1 缓存的配置。
type Config struct {
	// MaxEntries 最大条目数，必须大于 0。
	MaxEntries int

	// ExpireAfterWrite 写后过期时间。0 表示不启用。
	ExpireAfterWrite time.Duration

	// ExpireAfterAccess 访问后过期时间。0 表示不启用。
	// 具体语义由实现决定，详见 NewRistretto 与 NewLRU 的说明。
	ExpireAfterAccess time.Duration
}

// validate 校验配置合法性。
func (c Config) validate() error {
	if c.MaxEntries <= 0 {
		return ErrInvalidMaxEntries
	}
	if c.ExpireAfterWrite < 0 || c.ExpireAfterAccess < 0 {
		return ErrInvalidTTL
	}
	return nil
}

// entryTTL 计算条目的实际 TTL。
// 同时配置写后过期与访问后过期时取较小值；均未配置时返回 0（永不过期）。
func (c Config) entryTTL() time.Duration {
	switch {
	case c.ExpireAfterWrite > 0 && c.ExpireAfterAccess > 0:
		return min(c.ExpireAfterWrite, c.ExpireAfterAccess)
	case c.ExpireAfterWrite > 0:
		return c.ExpireAfterWrite
	default:
		return c.ExpireAfterAccess
	}
}
