package xnearcache

import (
	"bytes"
	"context"
)

// LoadFunc 定义从后端加载数据的函数类型。
// 返回 nil 值表示"后端确认不存在"，是否可缓存取决于 CacheNullValues。
type LoadFunc func(ctx context.Context) ([]byte, error)

// Cache 是单个命名空间的两级缓存。
//
// Lookup/Put/Evict/Clear 对 L2 和广播故障 fail-open：调用方只会
// 观察到未命中或无操作，不会观察到错误。例外见包文档。
type Cache interface {
	// Name 返回命名空间名称。
	Name() string

	// Lookup 查询缓存。L1 命中直接返回；L1 未命中时查 L2 并回填 L1。
	// 缓存的空值（null marker）返回 (nil, true)。
	Lookup(ctx context.Context, key string) ([]byte, bool)

	// GetOrLoad 查询缓存，未命中时调用 loader 回源并写入两级缓存。
	// 内置 singleflight，同一 key 的并发请求只回源一次。
	// 回源失败或写入失败返回包装了 key 与原始错误的 ErrLoadFailed。
	GetOrLoad(ctx context.Context, key string, loader LoadFunc) ([]byte, error)

	// Put 写入两级缓存。L2 写失败记录日志后忽略，不回滚 L1。
	// 关闭空值缓存时写入 nil 返回 ErrNullValueDisabled，两级均不触碰。
	Put(ctx context.Context, key string, value []byte) error

	// PutIfAbsent 在键不存在时写入。返回已存在的值（若有）。
	// 跨层、跨实例均非原子：并发调用方可能都观察到"不存在"。
	PutIfAbsent(ctx context.Context, key string, value []byte) (previous []byte, existed bool, err error)

	// Evict 从两级缓存删除键，并无条件广播 EVICT 消息
	// （广播表达调用方意图，与两级删除是否真正命中无关）。
	Evict(ctx context.Context, key string) error

	// Clear 清空本命名空间：L1 全部失效，L2 按前缀扫描删除，
	// 并广播 CLEAR 消息。
	Clear(ctx context.Context) error

	// EvictLocalOnly 只删除 L1 中的键，不触碰 L2，不广播。
	// 仅供入站失效消息的分发路径使用。
	EvictLocalOnly(key string)

	// ClearLocalOnly 只清空 L1，不触碰 L2，不广播。
	// 仅供入站失效消息的分发路径使用。
	ClearLocalOnly()

	// Stats 返回本命名空间的 L1 统计信息。
	Stats() Stats
}

// Stats 是单个命名空间的 L1 统计快照。
type Stats struct {
	Hits          uint64
	Misses        uint64
	Evictions     uint64
	EstimatedSize int64
}

// HitRatio 返回 L1 命中率，没有任何访问时返回 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// InvalidationPublisher 是失效广播的发布端能力契约。
// *xinvalidate.Publisher 满足此接口；测试中可注入记录实现。
type InvalidationPublisher interface {
	PublishEvict(ctx context.Context, cacheName, key string) error
	PublishClear(ctx context.Context, cacheName string) error
}

// nullMarker 是"缓存的空值"在两级缓存中的存储形态。
// 带控制字符前后缀，避免与业务数据冲突。
var nullMarker = []byte("\x00xnear:null\x00")

// wrapNull 计算值的存储形态，nil 包装为 null marker。
func wrapNull(value []byte) []byte {
	if value == nil {
		return nullMarker
	}
	return value
}

// unwrapNull 还原存储形态，null marker 还原为 nil。
func unwrapNull(stored []byte) []byte {
	if bytes.Equal(stored, nullMarker) {
		return nil
	}
	return stored
}
